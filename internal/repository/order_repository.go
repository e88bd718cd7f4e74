package repository

import (
	"context"
	"order_queue/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetView(ctx context.Context, id uuid.UUID) (*models.OrderView, error)
	ListViewsBySession(ctx context.Context, sessionID uuid.UUID) ([]models.OrderView, error)
	AssignIfUnassigned(ctx context.Context, id, workerID uuid.UUID, at time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, at time.Time) error
	Unassign(ctx context.Context, id uuid.UUID, at time.Time) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithItems inserts the order and its lines in one transaction.
func (r *orderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return NewOrderItemRepository(tx).CreateBatch(ctx, items)
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// orderViewRow is the scan target for the orders/users join; items are attached separately.
type orderViewRow struct {
	ID                 uuid.UUID
	SessionID          uuid.UUID
	CustomerName       string
	CustomerPhone      *string
	Status             string
	AssignedWorkerID   *uuid.UUID
	AssignedWorkerName *string
	AssignedAt         *time.Time
	TotalPriceCents    int
	TrackingToken      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (row orderViewRow) view() models.OrderView {
	return models.OrderView{
		ID:                 row.ID,
		SessionID:          row.SessionID,
		CustomerName:       row.CustomerName,
		CustomerPhone:      row.CustomerPhone,
		Status:             row.Status,
		AssignedWorkerID:   row.AssignedWorkerID,
		AssignedWorkerName: row.AssignedWorkerName,
		AssignedAt:         row.AssignedAt,
		TotalPriceCents:    row.TotalPriceCents,
		TrackingToken:      row.TrackingToken,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
		Items:              []models.OrderItemView{},
	}
}

func (r *orderRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("orders").
		Select("orders.id, orders.session_id, orders.customer_name, orders.customer_phone, orders.status, " +
			"orders.assigned_worker_id, users.name AS assigned_worker_name, orders.assigned_at, " +
			"orders.total_price_cents, orders.tracking_token, orders.created_at, orders.updated_at").
		Joins("LEFT JOIN users ON users.id = orders.assigned_worker_id")
}

// GetView returns the order joined with its worker name. Items are left empty.
func (r *orderRepository) GetView(ctx context.Context, id uuid.UUID) (*models.OrderView, error) {
	var rows []orderViewRow
	err := r.viewQuery(ctx).Where("orders.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	view := rows[0].view()
	return &view, nil
}

func (r *orderRepository) ListViewsBySession(ctx context.Context, sessionID uuid.UUID) ([]models.OrderView, error) {
	var rows []orderViewRow
	err := r.viewQuery(ctx).
		Where("orders.session_id = ?", sessionID).
		Order("orders.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]models.OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.view())
	}
	return views, nil
}

// AssignIfUnassigned sets the worker only while no worker is set.
// It reports false when another writer got there first.
func (r *orderRepository) AssignIfUnassigned(ctx context.Context, id, workerID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND assigned_worker_id IS NULL", id).
		Updates(map[string]interface{}{
			"assigned_worker_id": workerID,
			"assigned_at":        at,
			"updated_at":         at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) Unassign(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_worker_id": nil,
			"assigned_at":        nil,
			"updated_at":         at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
