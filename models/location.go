package models

import "gorm.io/gorm"

type Location struct {
	Entity
	Kind   string `gorm:"type:varchar(100)" json:"kind"` // city, dungeon, region...
	Region string `gorm:"type:varchar(300)" json:"region"`
}

// DeleteDependents unlinks the creatures found at the location
func (l *Location) DeleteDependents(tx *gorm.DB) error {
	return tx.Exec("DELETE FROM creature_locations WHERE location_id = ?", l.ID).Error
}
