package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"order_queue/internal/auth"
	"order_queue/internal/models"
	"order_queue/internal/repository"
	"strings"
	"time"
)

const inviteCodeAttempts = 3

type InviteService interface {
	CreateInvite(ctx context.Context, creator *auth.Principal, role string) (*models.InviteToken, error)
}

type inviteService struct {
	inviteRepo repository.InviteRepository
	ttl        time.Duration
	now        func() time.Time
}

// NewInviteService issues invites that expire after ttl, or never when ttl is zero.
func NewInviteService(inviteRepo repository.InviteRepository, ttl time.Duration) InviteService {
	return &inviteService{inviteRepo: inviteRepo, ttl: ttl, now: time.Now}
}

func (s *inviteService) CreateInvite(ctx context.Context, creator *auth.Principal, role string) (*models.InviteToken, error) {
	if !auth.Can(creator, auth.ActionCreateInvite, auth.Resource{}) {
		return nil, ErrForbidden
	}
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != string(models.RoleAdmin) && role != string(models.RoleWorker) {
		return nil, ErrInviteRole
	}

	var expiresAt *time.Time
	if s.ttl > 0 {
		t := s.now().Add(s.ttl)
		expiresAt = &t
	}

	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := newInviteCode()
		if err != nil {
			return nil, internalError("failed to generate invite code", err)
		}

		invite := &models.InviteToken{
			Code:            code,
			Role:            role,
			CreatedByUserID: &creator.ID,
			ExpiresAt:       expiresAt,
		}
		err = s.inviteRepo.Create(ctx, invite)
		if errors.Is(err, repository.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return nil, internalError("failed to create invite", err)
		}
		return invite, nil
	}
	return nil, internalError("failed to create invite", repository.ErrDuplicateCode)
}

// newInviteCode returns 12 upper-case hex digits grouped as XXXX-XXXX-XXXX.
func newInviteCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	raw := strings.ToUpper(hex.EncodeToString(buf))
	return raw[0:4] + "-" + raw[4:8] + "-" + raw[8:12], nil
}
