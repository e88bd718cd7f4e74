package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID        uuid.UUID  `json:"session_id" gorm:"type:uuid;not null;index"`
	Session          *Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CustomerName     string     `json:"customer_name" gorm:"type:varchar(255);not null"`
	CustomerPhone    *string    `json:"customer_phone"`
	Status           string     `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"` // PENDING, MAKING, READY
	AssignedWorkerID *uuid.UUID `json:"assigned_worker_id" gorm:"type:uuid;index"`
	AssignedWorker   *User      `json:"-" gorm:"foreignKey:AssignedWorkerID;constraint:OnDelete:SET NULL"`
	AssignedAt       *time.Time `json:"assigned_at"`
	TotalPriceCents  int        `json:"total_price_cents" gorm:"not null;default:0"`
	TrackingToken    string     `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending OrderStatus = "PENDING"
	OrderMaking  OrderStatus = "MAKING"
	OrderReady   OrderStatus = "READY"
)

// OrderStatuses lists the statuses in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderMaking, OrderReady}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderView is an order joined with its worker name and line items.
type OrderView struct {
	ID                 uuid.UUID       `json:"id"`
	SessionID          uuid.UUID       `json:"session_id"`
	CustomerName       string          `json:"customer_name"`
	CustomerPhone      *string         `json:"customer_phone"`
	Status             string          `json:"status"`
	AssignedWorkerID   *uuid.UUID      `json:"assigned_worker_id"`
	AssignedWorkerName *string         `json:"assigned_worker_name"`
	AssignedAt         *time.Time      `json:"assigned_at"`
	TotalPriceCents    int             `json:"total_price_cents"`
	TrackingToken      string          `json:"-"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Items              []OrderItemView `json:"items"`
}
