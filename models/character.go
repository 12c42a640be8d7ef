package models

import "gorm.io/gorm"

type Character struct {
	Entity
	Player    string `gorm:"type:varchar(100)" json:"player"`
	Race      string `gorm:"type:varchar(100)" json:"race"`
	Class     string `gorm:"type:varchar(100)" json:"class"`
	Level     int    `gorm:"not null;default:1" json:"level"`
	HitPoints int    `json:"hit_points"`
	Alive     bool   `gorm:"not null" json:"alive"`
	Items     []Item `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"items,omitempty"`
}

func (c *Character) Preload(tx *gorm.DB, showPrivate bool) *gorm.DB {
	if showPrivate {
		return tx.Preload("Items")
	}
	return tx.Preload("Items", "private = ?", false)
}

// DeleteDependents drops the character as holder of its items
func (c *Character) DeleteDependents(tx *gorm.DB) error {
	return tx.Model(&Item{}).Where("character_id = ?", c.ID).Update("character_id", nil).Error
}
