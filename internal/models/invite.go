package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteToken struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Code            string     `json:"code" gorm:"type:varchar(64);uniqueIndex;not null"`
	Role            string     `json:"role" gorm:"type:varchar(20);not null"`
	CreatedByUserID *uuid.UUID `json:"created_by_user_id" gorm:"type:uuid"`
	CreatedBy       *User      `json:"-" gorm:"foreignKey:CreatedByUserID;constraint:OnDelete:SET NULL"`
	UsedByUserID    *uuid.UUID `json:"used_by_user_id" gorm:"type:uuid"`
	UsedBy          *User      `json:"-" gorm:"foreignKey:UsedByUserID;constraint:OnDelete:SET NULL"`
	ExpiresAt       *time.Time `json:"expires_at"`
	UsedAt          *time.Time `json:"used_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (t *InviteToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
