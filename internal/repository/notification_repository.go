package repository

import (
	"context"
	"order_queue/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, event *models.NotificationEvent) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.NotificationEvent, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, event *models.NotificationEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *notificationRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.NotificationEvent, error) {
	var events []models.NotificationEvent
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("sent_at DESC").Find(&events).Error
	return events, err
}
