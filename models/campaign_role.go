package models

import (
	"context"
	"tavern/access"

	"github.com/juju/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CampaignRole grants a non-owner user a role in a campaign
type CampaignRole struct {
	Base
	CampaignID string      `gorm:"type:varchar(36);not null;index:uniq_campaign_user,priority:1,unique"`
	Campaign   Campaign    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID     string      `gorm:"type:varchar(36);not null;index:uniq_campaign_user,priority:2,unique;index"`
	User       User        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Role       access.Role `gorm:"type:varchar(16);not null"`
}

// RoleStore is the gorm implementation of access.Store
type RoleStore struct {
	db   *gorm.DB
	inTx bool
}

func NewRoleStore(db *gorm.DB) *RoleStore {
	return &RoleStore{db: db}
}

func (s *RoleStore) FindRole(ctx context.Context, campaignID, userID string) (access.Role, error) {
	row := CampaignRole{}
	result := s.db.WithContext(ctx).
		Select("role").
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Limit(1).
		Find(&row)
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", access.ErrNotFound
	}
	return row.Role, nil
}

func (s *RoleStore) UpsertRole(ctx context.Context, campaignID, userID string, role access.Role) error {
	if _, err := s.FindOwnerID(ctx, campaignID); err != nil {
		return err
	}
	row := CampaignRole{
		CampaignID: campaignID,
		UserID:     userID,
		Role:       role,
	}
	return s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *RoleStore) DeleteRole(ctx context.Context, campaignID, userID string) error {
	return s.db.WithContext(ctx).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Delete(&CampaignRole{}).Error
}

func (s *RoleStore) FindOwnerID(ctx context.Context, campaignID string) (string, error) {
	tx := s.db.WithContext(ctx).Select("owner_id")
	if s.inTx {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	campaign := Campaign{}
	err := tx.Take(&campaign, "id = ?", campaignID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", access.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return campaign.OwnerID, nil
}

func (s *RoleStore) Transaction(ctx context.Context, fn func(tx access.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RoleStore{db: tx, inTx: true})
	})
}
