package handlers

import (
	"net/http"
	"tavern/access"
	"tavern/auth"
	"tavern/config"
	"tavern/db"
	"tavern/models"
	"time"

	"github.com/gin-gonic/gin"
)

type InvitationCreateRequest struct {
	Role string `json:"role" binding:"required"`
}

type InvitationIDRequest struct {
	ID string `json:"id" binding:"required"`
}

type InvitationAcceptRequest struct {
	Token string `json:"token" binding:"required"`
}

func InvitationCreate(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	req := InvitationCreateRequest{}
	if !bindJSON(c, &req) {
		return
	}
	role, err := access.ParseRole(req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	ttl := time.Duration(config.INVITATION_TTL_HOURS) * time.Hour
	invitation, err := models.InvitationCreate(db.Instance, scope.Campaign.ID, user.ID, role, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, invitation)
}

// InvitationList shows the invitations that can still be accepted
func InvitationList(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	invitations := []models.Invitation{}
	err := db.Instance.
		Where("campaign_id = ? AND expires_at >= ?", scope.Campaign.ID, time.Now().Unix()).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, invitations)
}

func InvitationDelete(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	req := InvitationIDRequest{}
	if !bindJSON(c, &req) {
		return
	}
	result := db.Instance.Where("id = ? AND campaign_id = ?", req.ID, scope.Campaign.ID).Delete(&models.Invitation{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, Response{"invitation not found"})
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// InvitationAccept joins the campaign of the invitation. Owners and members
// keep what they have, an invitation never changes an existing role.
func InvitationAccept(c *gin.Context, user *models.User) {
	req := InvitationAcceptRequest{}
	if !bindJSON(c, &req) {
		return
	}
	invitation, err := models.FindInvitation(db.Instance, req.Token, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	joined, err := Access.JoinCampaign(c.Request.Context(), invitation.CampaignID, user.ID, invitation.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	if joined {
		Publish(invitation.CampaignID, FeedMessageMember, MemberChange{UserID: user.ID, Role: string(invitation.Role)})
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "campaign_id": invitation.CampaignID, "joined": joined})
}
