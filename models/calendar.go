package models

import (
	"fmt"

	"github.com/juju/errors"
	"gorm.io/gorm"
)

const ErrInvalidCalendar = errors.ConstError("invalid calendar")

// Calendar is an in-game calendar with its own months and current date
type Calendar struct {
	Entity
	DaysPerWeek  int             `gorm:"not null;default:7" json:"days_per_week"`
	CurrentYear  int             `json:"current_year"`
	CurrentMonth int             `json:"current_month"` // 1 based
	CurrentDay   int             `json:"current_day"`   // 1 based
	Months       []CalendarMonth `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"months"`
}

type CalendarMonth struct {
	ID         uint64 `gorm:"primaryKey" json:"-"`
	CalendarID string `gorm:"type:varchar(36);not null;index" json:"-"`
	Position   int    `json:"position"`
	Name       string `gorm:"type:varchar(100)" json:"name"`
	Days       int    `json:"days"`
}

func (c *Calendar) Preload(tx *gorm.DB, showPrivate bool) *gorm.DB {
	return tx.Preload("Months", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position")
	})
}

func (c *Calendar) DeleteDependents(tx *gorm.DB) error {
	return tx.Where("calendar_id = ?", c.ID).Delete(&CalendarMonth{}).Error
}

// Validate checks the current date against the months
func (c *Calendar) Validate() error {
	if c.DaysPerWeek < 1 {
		return fmt.Errorf("%w: days per week must be positive", ErrInvalidCalendar)
	}
	for _, m := range c.Months {
		if m.Days < 1 || m.Name == "" {
			return fmt.Errorf("%w: month %q needs a name and days", ErrInvalidCalendar, m.Name)
		}
	}
	if c.CurrentMonth == 0 && c.CurrentDay == 0 {
		return nil
	}
	if c.CurrentMonth < 1 || c.CurrentMonth > len(c.Months) {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidCalendar, c.CurrentMonth)
	}
	if c.CurrentDay < 1 || c.CurrentDay > c.Months[c.CurrentMonth-1].Days {
		return fmt.Errorf("%w: day %d out of range", ErrInvalidCalendar, c.CurrentDay)
	}
	return nil
}

func (c *Calendar) DaysInYear() (days int) {
	for _, m := range c.Months {
		days += m.Days
	}
	return
}

// SetMonths replaces the months of a saved calendar, keeping their order
func (c *Calendar) SetMonths(tx *gorm.DB, months []CalendarMonth) error {
	if err := c.DeleteDependents(tx); err != nil {
		return err
	}
	c.Months = make([]CalendarMonth, 0, len(months))
	for i, m := range months {
		c.Months = append(c.Months, CalendarMonth{CalendarID: c.ID, Position: i + 1, Name: m.Name, Days: m.Days})
	}
	if len(c.Months) == 0 {
		return nil
	}
	return tx.Create(&c.Months).Error
}
