package handlers

import (
	"net/http"
	"tavern/access"
	"tavern/auth"
	"tavern/db"
	"tavern/models"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

type MemberAddRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type MemberRoleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type MemberRemoveRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func MemberList(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	members, err := models.CampaignMembers(db.Instance, &scope.Campaign)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, members)
}

// MemberAdd adds a registered user by email, or changes their role when
// they are a member already
func MemberAdd(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	req := MemberAddRequest{}
	if !bindJSON(c, &req) {
		return
	}
	role, err := access.ParseRole(req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	member := models.User{}
	err = db.Instance.Select("id").Take(&member, "email = ?", req.Email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, Response{"user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	if err = Access.SetMemberRole(c.Request.Context(), scope.Campaign.ID, member.ID, role); err != nil {
		respondError(c, err)
		return
	}
	Publish(scope.Campaign.ID, FeedMessageMember, MemberChange{UserID: member.ID, Role: string(role)})
	c.JSON(http.StatusOK, gin.H{"error": "", "user_id": member.ID})
}

// MemberRole changes the role of an existing member
func MemberRole(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	req := MemberRoleRequest{}
	if !bindJSON(c, &req) {
		return
	}
	role, err := access.ParseRole(req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	if req.UserID != scope.Campaign.OwnerID {
		if _, err = models.NewRoleStore(db.Instance).FindRole(ctx, scope.Campaign.ID, req.UserID); err != nil {
			respondError(c, err)
			return
		}
	}
	if err = Access.SetMemberRole(ctx, scope.Campaign.ID, req.UserID, role); err != nil {
		respondError(c, err)
		return
	}
	Publish(scope.Campaign.ID, FeedMessageMember, MemberChange{UserID: req.UserID, Role: string(role)})
	c.JSON(http.StatusOK, OKResponse)
}

func MemberRemove(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	req := MemberRemoveRequest{}
	if !bindJSON(c, &req) {
		return
	}
	removeMember(c, scope, req.UserID)
}

// CampaignLeave removes the caller's own membership
func CampaignLeave(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	removeMember(c, scope, user.ID)
}

func removeMember(c *gin.Context, scope *auth.CampaignScope, userID string) {
	if err := Access.RemoveCampaignMember(c.Request.Context(), scope.Campaign.ID, userID); err != nil {
		respondError(c, err)
		return
	}
	if !scope.Campaign.IsPublic() {
		disconnectUser(scope.Campaign.ID, userID)
	}
	Publish(scope.Campaign.ID, FeedMessageMember, MemberChange{UserID: userID})
	c.JSON(http.StatusOK, OKResponse)
}
