package models

// Image is an uploaded picture that campaign entities can point at
type Image struct {
	Base
	CampaignID   string `gorm:"type:varchar(36);not null;index" json:"campaign_id"`
	UploadedByID string `gorm:"type:varchar(36)" json:"uploaded_by_id"`
	BucketID     uint64 `json:"-"`
	Path         string `gorm:"type:varchar(500)" json:"-"`
	ThumbPath    string `gorm:"type:varchar(500)" json:"-"`
	MimeType     string `gorm:"type:varchar(100)" json:"mime_type"`
	Size         int64  `json:"size"`
	Width        uint16 `json:"width"`
	Height       uint16 `json:"height"`
}
