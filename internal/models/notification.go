package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationEvent logs an outbound customer message.
type NotificationEvent struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID           *uuid.UUID `json:"order_id" gorm:"type:uuid;index"`
	Order             *Order     `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Phone             string     `json:"phone" gorm:"not null"`
	Type              string     `json:"type" gorm:"type:varchar(50);not null"` // ORDER_READY
	Message           string     `json:"message" gorm:"type:text;not null"`
	ProviderMessageID *string    `json:"provider_message_id"`
	Status            string     `json:"status" gorm:"type:varchar(20);not null;default:'SENT'"` // SENT, FAILED
	SentAt            time.Time  `json:"sent_at" gorm:"not null"`
}

const (
	NotificationOrderReady = "ORDER_READY"

	NotificationSent   = "SENT"
	NotificationFailed = "FAILED"
)

func (n *NotificationEvent) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
