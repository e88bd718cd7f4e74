package repository

import (
	"context"
	"order_queue/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sessionActivationLock is the pg_advisory_xact_lock key serializing activations.
const sessionActivationLock int64 = 0x5e55_1011

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	GetActive(ctx context.Context) (*models.Session, error)
	List(ctx context.Context) ([]models.Session, error)
	Activate(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Close(ctx context.Context, id uuid.UUID) (*models.Session, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) GetActive(ctx context.Context) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) List(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// Activate clears every active flag and sets it on id inside one transaction.
// The advisory lock serializes concurrent activations and the partial unique
// index on is_active rejects any interleaving that would leave two rows active.
func (r *sessionRepository) Activate(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", sessionActivationLock).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Session{}).
			Where("is_active = ? AND id <> ?", true, id).
			Update("is_active", false).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Session{}).Where("id = ?", id).Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return tx.First(&session, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Close(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	res := r.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}
