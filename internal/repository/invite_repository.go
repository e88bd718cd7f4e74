package repository

import (
	"context"
	"errors"
	"order_queue/internal/models"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InviteRepository interface {
	Create(ctx context.Context, invite *models.InviteToken) error
	Redeem(ctx context.Context, code string, user *models.User, now time.Time) error
}

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(ctx context.Context, invite *models.InviteToken) error {
	err := r.db.WithContext(ctx).Create(invite).Error
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	return err
}

// Redeem creates user with the invite's role and marks the invite used, all or nothing.
func (r *inviteRepository) Redeem(ctx context.Context, code string, user *models.User, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invite models.InviteToken
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ? AND used_at IS NULL", code).
			First(&invite).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteInvalid
		}
		if err != nil {
			return err
		}
		if invite.ExpiresAt != nil && invite.ExpiresAt.Before(now) {
			return ErrInviteExpired
		}

		user.Email = strings.ToLower(user.Email)
		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrEmailTaken
		}

		user.Role = invite.Role
		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}

		res := tx.Model(&models.InviteToken{}).
			Where("id = ? AND used_at IS NULL", invite.ID).
			Updates(map[string]interface{}{
				"used_at":         now,
				"used_by_user_id": user.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInviteInvalid
		}
		return nil
	})
}
