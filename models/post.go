package models

import "gorm.io/gorm"

// Post is a message on the campaign board
type Post struct {
	Base
	CampaignID string   `gorm:"type:varchar(36);not null;index:campaign_created,priority:1" json:"campaign_id"`
	Campaign   Campaign `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorID   string   `gorm:"type:varchar(36);not null" json:"author_id"`
	Author     User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Title      string   `gorm:"type:varchar(300)" json:"title"`
	Content    string   `gorm:"type:text" json:"content"`
}

func (p *Post) PreloadAuthor(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Author", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name")
	})
}

func CampaignPosts(tx *gorm.DB, campaignID string, limit int) ([]Post, error) {
	posts := []Post{}
	err := (&Post{}).PreloadAuthor(tx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
