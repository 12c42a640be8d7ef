package models

import (
	"tavern/access"

	"github.com/juju/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

const ErrNotMember = errors.ConstError("user is not a member of the campaign")

// Campaign is the top level container of all game content. Its owner is not a
// CampaignRole: ownership is only ever recorded in OwnerID.
type Campaign struct {
	Base
	OwnerID     string     `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Owner       User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Name        string     `gorm:"type:varchar(300);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Visibility  Visibility `gorm:"type:varchar(16);not null;default:PRIVATE" json:"visibility"`
}

func (c *Campaign) IsPublic() bool {
	return c.Visibility == VisibilityPublic
}

func CampaignCreate(tx *gorm.DB, ownerID, name, description string, visibility Visibility) (Campaign, error) {
	if visibility == "" {
		visibility = VisibilityPrivate
	}
	campaign := Campaign{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Visibility:  visibility,
	}
	return campaign, tx.Omit(clause.Associations).Create(&campaign).Error
}

// LoadCampaign returns access.ErrNotFound for unknown campaigns
func LoadCampaign(tx *gorm.DB, id string) (c Campaign, err error) {
	err = tx.Take(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = access.ErrNotFound
	}
	return
}

// CampaignMembership is a campaign as seen by one user. Role is empty for the owner.
type CampaignMembership struct {
	Campaign
	Role access.Role `json:"role"`
}

func CampaignsForUser(tx *gorm.DB, userID string) ([]CampaignMembership, error) {
	result := []CampaignMembership{}
	err := tx.Table("campaigns").
		Select("campaigns.*, coalesce(campaign_roles.role, '') as role").
		Joins("left join campaign_roles on campaign_roles.campaign_id = campaigns.id and campaign_roles.user_id = ?", userID).
		Where("campaigns.owner_id = ? OR campaign_roles.user_id = ?", userID, userID).
		Order("campaigns.updated_at DESC").
		Scan(&result).Error
	return result, err
}

type Member struct {
	UserID  string      `json:"user_id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Role    access.Role `json:"role"`
	IsOwner bool        `json:"is_owner"`
}

// CampaignMembers lists the owner first, then everybody holding a role
func CampaignMembers(tx *gorm.DB, campaign *Campaign) ([]Member, error) {
	owner := User{}
	if err := tx.Take(&owner, "id = ?", campaign.OwnerID).Error; err != nil {
		return nil, err
	}
	result := []Member{{UserID: owner.ID, Name: owner.Name, Email: owner.Email, IsOwner: true}}
	members := []Member{}
	err := tx.Table("campaign_roles").
		Select("users.id as user_id, users.name, users.email, campaign_roles.role").
		Joins("join users on users.id = campaign_roles.user_id").
		Where("campaign_roles.campaign_id = ? AND campaign_roles.user_id != ?", campaign.ID, campaign.OwnerID).
		Order("users.name").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return append(result, members...), nil
}

// TransferCampaign hands the campaign over to an existing member. The new
// owner loses their role row and the previous owner stays on as an admin.
func TransferCampaign(tx *gorm.DB, campaignID, newOwnerID string) error {
	return tx.Transaction(func(tx *gorm.DB) error {
		campaign := Campaign{}
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&campaign, "id = ?", campaignID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.ErrNotFound
		}
		if err != nil {
			return err
		}
		if campaign.OwnerID == newOwnerID {
			return nil
		}
		roles := &RoleStore{db: tx, inTx: true}
		ctx := tx.Statement.Context
		if _, err = roles.FindRole(ctx, campaignID, newOwnerID); err != nil {
			if errors.Is(err, access.ErrNotFound) {
				return ErrNotMember
			}
			return err
		}
		if err = roles.DeleteRole(ctx, campaignID, newOwnerID); err != nil {
			return err
		}
		if err = tx.Model(&campaign).Update("owner_id", newOwnerID).Error; err != nil {
			return err
		}
		return roles.UpsertRole(ctx, campaignID, campaign.OwnerID, access.RoleAdmin)
	})
}

// DeleteCampaign removes the campaign with everything scoped to it and returns
// the images whose files should be removed from storage.
func DeleteCampaign(tx *gorm.DB, campaignID string) (images []Image, err error) {
	err = tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", campaignID).Find(&images).Error; err != nil {
			return err
		}
		children := []struct {
			table, column, parent string
		}{
			{"creature_locations", "creature_id", "creatures"},
			{"calendar_months", "calendar_id", "calendars"},
			{"timeline_events", "timeline_id", "timelines"},
		}
		for _, child := range children {
			err := tx.Exec("DELETE FROM "+child.table+" WHERE "+child.column+" IN (SELECT id FROM "+child.parent+" WHERE campaign_id = ?)", campaignID).Error
			if err != nil {
				return err
			}
		}
		// hierarchies first lose their parents so that rows can go in any order
		for _, model := range []any{&Creature{}, &Ability{}} {
			if err := tx.Model(model).Where("campaign_id = ?", campaignID).Update("parent_id", nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&Item{}).Where("campaign_id = ?", campaignID).Update("character_id", nil).Error; err != nil {
			return err
		}
		for _, model := range campaignScoped() {
			if err := tx.Where("campaign_id = ?", campaignID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&Campaign{}, "id = ?", campaignID).Error
	})
	return images, err
}

func campaignScoped() []any {
	return []any{
		&CampaignRole{}, &Invitation{}, &Post{}, &DiceRoll{},
		&Item{}, &Character{}, &Creature{}, &Location{}, &Ability{},
		&Note{}, &Calendar{}, &Timeline{}, &Image{},
	}
}
