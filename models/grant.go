package models

// Permission is a site wide permission, independent of any campaign
type Permission uint8

const (
	PermissionNone               Permission = 0
	PermissionAdmin              Permission = 1 // manages users and storage buckets
	PermissionCanCreateCampaigns Permission = 2
)

type Grant struct {
	ID         uint64 `gorm:"primaryKey"`
	CreatedAt  int64
	GrantorID  *string    `gorm:"type:varchar(36)"`
	UserID     string     `gorm:"type:varchar(36);not null;index:user_permission,unique"`
	Permission Permission `gorm:"index:user_permission,unique"`
}
