package middleware

import (
	"context"
	"net/http"
	"order_queue/internal/auth"
	"order_queue/internal/services"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

// AuthRequired resolves the bearer token in the Authorization header to a
// staff principal.
func AuthRequired(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearerToken(c)
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header."})
			return
		}

		principal, err := authenticator.Authenticate(c.Request.Context(), tok)
		if err != nil {
			if services.KindOf(err) == services.KindUnauthenticated {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token."})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": services.PublicMessage(err)})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Require lets the request through only when the principal may perform action.
// It must run after AuthRequired.
func Require(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Can(CurrentPrincipal(c), action, auth.Resource{}) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": services.PublicMessage(services.ErrForbidden)})
			return
		}
		c.Next()
	}
}

// StreamToken copies an access_token query parameter into the Authorization
// header for EventSource clients, which cannot set headers. Mount it only on
// streaming routes.
func StreamToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if tok := c.Query("access_token"); tok != "" {
				c.Request.Header.Set("Authorization", "Bearer "+tok)
			}
		}
		c.Next()
	}
}

// CurrentPrincipal returns the principal set by AuthRequired, or nil.
func CurrentPrincipal(c *gin.Context) *auth.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, _ := v.(*auth.Principal)
	return principal
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
