package models

import "gorm.io/gorm"

// Creature may be a variant of a parent creature (e.g. "Goblin Boss" of "Goblin")
// and can be found at any number of locations
type Creature struct {
	Entity
	ParentID        *string    `gorm:"type:varchar(36);index" json:"parent_id"`
	Parent          *Creature  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Children        []Creature `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	ChallengeRating string     `gorm:"type:varchar(20)" json:"challenge_rating"`
	ArmorClass      int        `json:"armor_class"`
	HitPoints       int        `json:"hit_points"`
	Locations       []Location `gorm:"many2many:creature_locations;" json:"locations,omitempty"`
}

func (c *Creature) Preload(tx *gorm.DB, showPrivate bool) *gorm.DB {
	if showPrivate {
		return tx.Preload("Children").Preload("Locations")
	}
	return tx.Preload("Children", "private = ?", false).Preload("Locations", "private = ?", false)
}

func (c *Creature) DeleteDependents(tx *gorm.DB) error {
	if err := detachChildren(tx, &Creature{}, c.ID); err != nil {
		return err
	}
	return tx.Exec("DELETE FROM creature_locations WHERE creature_id = ?", c.ID).Error
}

func (c *Creature) CheckParent(tx *gorm.DB) error {
	return checkParent(tx, "creatures", c.CampaignID, c.ID, c.ParentID)
}

// SetLocations replaces the locations of a saved creature
func (c *Creature) SetLocations(tx *gorm.DB, locationIDs []string) error {
	locations := []Location{}
	if len(locationIDs) > 0 {
		if err := tx.Where("campaign_id = ? AND id IN ?", c.CampaignID, locationIDs).Find(&locations).Error; err != nil {
			return err
		}
		if len(locations) != len(uniqueStrings(locationIDs)) {
			return ErrInvalidReference
		}
	}
	c.Locations = locations
	return tx.Model(c).Association("Locations").Replace(locations)
}

func uniqueStrings(in []string) map[string]struct{} {
	result := make(map[string]struct{}, len(in))
	for _, s := range in {
		result[s] = struct{}{}
	}
	return result
}
