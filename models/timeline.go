package models

import "gorm.io/gorm"

type Timeline struct {
	Entity
	Events []TimelineEvent `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"events"`
}

type TimelineEvent struct {
	ID          uint64 `gorm:"primaryKey" json:"-"`
	TimelineID  string `gorm:"type:varchar(36);not null;index" json:"-"`
	Position    int    `json:"position"`
	Title       string `gorm:"type:varchar(300)" json:"title"`
	Date        string `gorm:"type:varchar(100)" json:"date"` // free form in-game date
	Description string `gorm:"type:text" json:"description"`
}

func (t *Timeline) Preload(tx *gorm.DB, showPrivate bool) *gorm.DB {
	return tx.Preload("Events", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position")
	})
}

func (t *Timeline) DeleteDependents(tx *gorm.DB) error {
	return tx.Where("timeline_id = ?", t.ID).Delete(&TimelineEvent{}).Error
}

// SetEvents replaces the events of a saved timeline, keeping their order
func (t *Timeline) SetEvents(tx *gorm.DB, events []TimelineEvent) error {
	if err := t.DeleteDependents(tx); err != nil {
		return err
	}
	t.Events = make([]TimelineEvent, 0, len(events))
	for i, e := range events {
		e.ID = 0
		e.TimelineID = t.ID
		e.Position = i + 1
		t.Events = append(t.Events, e)
	}
	if len(t.Events) == 0 {
		return nil
	}
	return tx.Create(&t.Events).Error
}
