package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem is immutable once created; UnitPriceCents is the catalog price at order time.
type OrderItem struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	Order          *Order    `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	MenuItemID     uuid.UUID `json:"menu_item_id" gorm:"type:uuid;not null;index"`
	MenuItem       *MenuItem `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Quantity       int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	UnitPriceCents int       `json:"unit_price_cents" gorm:"not null"`
	Position       int       `json:"position" gorm:"not null;default:0"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type OrderItemView struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"order_id"`
	MenuItemID     uuid.UUID `json:"menu_item_id"`
	Name           *string   `json:"name"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Position       int       `json:"position"`
}
