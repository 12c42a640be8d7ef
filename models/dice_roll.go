package models

import "gorm.io/gorm"

type DiceRoll struct {
	Base
	CampaignID string   `gorm:"type:varchar(36);not null;index" json:"campaign_id"`
	Campaign   Campaign `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID     string   `gorm:"type:varchar(36);not null" json:"user_id"`
	UserName   string   `gorm:"type:varchar(100)" json:"user_name"`
	Label      string   `gorm:"type:varchar(300)" json:"label"`
	Formula    string   `gorm:"type:varchar(200)" json:"formula"`
	Total      int      `json:"total"`
	Detail     string   `gorm:"type:text" json:"detail"`
}

func CampaignDiceRolls(tx *gorm.DB, campaignID string, limit int) ([]DiceRoll, error) {
	rolls := []DiceRoll{}
	err := tx.Where("campaign_id = ?", campaignID).Order("created_at DESC").Limit(limit).Find(&rolls).Error
	return rolls, err
}
