package models

import (
	"tavern/access"

	"github.com/juju/errors"
	"gorm.io/gorm"
)

const ErrInvalidReference = errors.ConstError("referenced object does not belong to the campaign")

// Entity holds the fields shared by all campaign content
type Entity struct {
	Base
	CampaignID  string  `gorm:"type:varchar(36);not null;index" json:"campaign_id"`
	CreatedByID string  `gorm:"type:varchar(36)" json:"created_by_id"`
	Name        string  `gorm:"type:varchar(300);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Private     bool    `gorm:"not null;default:false" json:"private"`
	ImageID     *string `gorm:"type:varchar(36)" json:"image_id"`
}

func (e *Entity) GetEntity() *Entity {
	return e
}

// CampaignEntity is implemented by every model embedding Entity
type CampaignEntity interface {
	GetEntity() *Entity
}

// Preloader is implemented by entities with associations shown on their detail view
type Preloader interface {
	Preload(tx *gorm.DB, showPrivate bool) *gorm.DB
}

// DependentsRemover is implemented by entities other rows point at
type DependentsRemover interface {
	DeleteDependents(tx *gorm.DB) error
}

// CampaignQuery restricts tx to the rows of the campaign the caller may see
func CampaignQuery(tx *gorm.DB, campaignID string, showPrivate bool) *gorm.DB {
	tx = tx.Where("campaign_id = ?", campaignID)
	if !showPrivate {
		tx = tx.Where("private = ?", false)
	}
	return tx
}

// FindEntity loads an entity of the campaign, access.ErrNotFound is returned
// for unknown ids as well as for private entities the caller may not see
func FindEntity(tx *gorm.DB, target CampaignEntity, campaignID, id string, showPrivate bool) error {
	query := CampaignQuery(tx, campaignID, showPrivate)
	if p, ok := target.(Preloader); ok {
		query = p.Preload(query, showPrivate)
	}
	err := query.Take(target, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access.ErrNotFound
	}
	return err
}

// CheckReference makes sure the row with id exists in the campaign
func CheckReference(tx *gorm.DB, model any, campaignID string, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	var count int64
	if err := tx.Model(model).Where("id = ? AND campaign_id = ?", *id, campaignID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrInvalidReference
	}
	return nil
}

type parentRow struct {
	ParentID *string
}

// checkParent verifies that parentID is in the campaign and that making it
// the parent of id does not close a cycle
func checkParent(tx *gorm.DB, table, campaignID, id string, parentID *string) error {
	if parentID == nil || *parentID == "" {
		return nil
	}
	current := *parentID
	for depth := 0; current != ""; depth++ {
		if current == id || depth > 100 {
			return ErrInvalidReference
		}
		row := parentRow{}
		result := tx.Table(table).Select("parent_id").Where("id = ? AND campaign_id = ?", current, campaignID).Limit(1).Scan(&row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidReference
		}
		if row.ParentID == nil {
			break
		}
		current = *row.ParentID
	}
	return nil
}

// detachChildren clears the parent of every direct child of id
func detachChildren(tx *gorm.DB, model any, id string) error {
	return tx.Model(model).Where("parent_id = ?", id).Update("parent_id", nil).Error
}
