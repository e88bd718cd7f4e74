package repository

import (
	"context"
	"order_queue/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []models.OrderItem) error
	ListViewsByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) ([]models.OrderItemView, error)
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

// CreateBatch stores the lines with their position in items.
func (r *orderItemRepository) CreateBatch(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].Position = i
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// ListViewsByOrderIDs loads the lines of every given order in a single query.
func (r *orderItemRepository) ListViewsByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) ([]models.OrderItemView, error) {
	var views []models.OrderItemView
	if len(orderIDs) == 0 {
		return views, nil
	}
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.id, order_items.order_id, order_items.menu_item_id, menu_items.name AS name, " +
			"order_items.quantity, order_items.unit_price_cents, order_items.position").
		Joins("LEFT JOIN menu_items ON menu_items.id = order_items.menu_item_id").
		Where("order_items.order_id IN ?", orderIDs).
		Order("order_items.order_id ASC").
		Order("order_items.position ASC").
		Scan(&views).Error
	return views, err
}
