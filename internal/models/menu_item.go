package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name                string    `json:"name" gorm:"type:varchar(255);not null"`
	PriceCents          int       `json:"price_cents" gorm:"not null;check:price_cents >= 0"`
	ImageURL            *string   `json:"image_url"`
	ImagePlaceholderURL *string   `json:"image_placeholder_url"`
	Badges              Badges    `json:"badges" gorm:"type:jsonb"`
	IsActive            bool      `json:"is_active" gorm:"not null"`
	DisplayOrder        int       `json:"display_order" gorm:"not null;default:0;index"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Badges is stored as a jsonb array.
type Badges []Badge

func (b Badges) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (b *Badges) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*b = Badges{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported badges type %T", value)
	}
	return json.Unmarshal(data, b)
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Badges == nil {
		m.Badges = Badges{}
	}
	return nil
}
