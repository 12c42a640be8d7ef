package models

import "gorm.io/gorm"

// Ability can be refined by child abilities, e.g. upgrades of a spell
type Ability struct {
	Entity
	ParentID *string   `gorm:"type:varchar(36);index" json:"parent_id"`
	Parent   *Ability  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Children []Ability `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Kind     string    `gorm:"type:varchar(100)" json:"kind"`
	Level    int       `json:"level"`
	Cost     string    `gorm:"type:varchar(100)" json:"cost"`
}

func (a *Ability) Preload(tx *gorm.DB, showPrivate bool) *gorm.DB {
	if showPrivate {
		return tx.Preload("Children")
	}
	return tx.Preload("Children", "private = ?", false)
}

func (a *Ability) DeleteDependents(tx *gorm.DB) error {
	return detachChildren(tx, &Ability{}, a.ID)
}

func (a *Ability) CheckParent(tx *gorm.DB) error {
	return checkParent(tx, "abilities", a.CampaignID, a.ID, a.ParentID)
}
