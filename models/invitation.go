package models

import (
	"tavern/access"
	"tavern/utils"
	"time"

	"github.com/juju/errors"
	"gorm.io/gorm"
)

const ErrInvitationExpired = errors.ConstError("invitation expired")

// Invitation lets whoever holds the token join the campaign with Role
type Invitation struct {
	Base
	CampaignID  string      `gorm:"type:varchar(36);not null;index" json:"campaign_id"`
	Campaign    Campaign    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedByID string      `gorm:"type:varchar(36)" json:"created_by_id"`
	Token       string      `gorm:"type:varchar(120);unique" json:"token"`
	Role        access.Role `gorm:"type:varchar(16);not null" json:"role"`
	ExpiresAt   int64       `json:"expires_at"`
}

func InvitationCreate(tx *gorm.DB, campaignID, createdByID string, role access.Role, ttl time.Duration) (Invitation, error) {
	invitation := Invitation{
		CampaignID:  campaignID,
		CreatedByID: createdByID,
		Token:       utils.Rand16BytesToBase62(),
		Role:        role,
		ExpiresAt:   time.Now().Add(ttl).Unix(),
	}
	return invitation, tx.Omit("Campaign").Create(&invitation).Error
}

// FindInvitation returns access.ErrNotFound for unknown tokens and
// ErrInvitationExpired once the invitation is past its expiry
func FindInvitation(tx *gorm.DB, token string, now time.Time) (invitation Invitation, err error) {
	err = tx.Take(&invitation, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invitation, access.ErrNotFound
	}
	if err == nil && invitation.ExpiresAt < now.Unix() {
		err = ErrInvitationExpired
	}
	return
}
