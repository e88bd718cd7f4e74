package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	trackingRole     = "anon"
	trackingIssuer   = "order-queue"
	trackingAudience = "order-tracking"
)

// TrackingClaims scope an anonymous credential to a single order's tracking token.
type TrackingClaims struct {
	Role          string `json:"role"`
	TrackingToken string `json:"tracking_token"`
	jwt.RegisteredClaims
}

// TrackingIssuer derives short-lived customer credentials from stored tracking
// tokens. Nothing it issues is persisted; the same token can be re-derived on
// every read.
type TrackingIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTrackingIssuer(secret string, ttl time.Duration) *TrackingIssuer {
	return &TrackingIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *TrackingIssuer) Derive(trackingToken string) (string, error) {
	now := i.now()
	claims := TrackingClaims{
		Role:          trackingRole,
		TrackingToken: trackingToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    trackingIssuer,
			Audience:  jwt.ClaimStrings{trackingAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify returns the tracking token a credential was derived from.
func (i *TrackingIssuer) Verify(credential string) (string, error) {
	claims := &TrackingClaims{}
	parsed, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(trackingIssuer),
		jwt.WithAudience(trackingAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid || claims.Role != trackingRole || claims.TrackingToken == "" {
		return "", ErrInvalidToken
	}
	return claims.TrackingToken, nil
}

// NewTrackingToken returns 32 random bytes, base64url encoded.
func NewTrackingToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
