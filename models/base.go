package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the opaque identifier and timestamps of most rows
type Base struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
