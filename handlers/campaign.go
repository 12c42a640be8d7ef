package handlers

import (
	"log"
	"net/http"
	"tavern/access"
	"tavern/auth"
	"tavern/db"
	"tavern/models"
	"tavern/storage"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	"gorm.io/gorm/clause"
)

type CampaignRequest struct {
	Name        string            `json:"name" binding:"required,max=300"`
	Description string            `json:"description"`
	Visibility  models.Visibility `json:"visibility" binding:"omitempty,oneof=PRIVATE PUBLIC"`
}

type CampaignInfo struct {
	models.Campaign
	Role         access.Role `json:"role"`
	IsOwner      bool        `json:"is_owner"`
	Capabilities []string    `json:"capabilities"`
}

type TransferRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func CampaignList(c *gin.Context, user *models.User) {
	campaigns, err := models.CampaignsForUser(db.Instance, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func CampaignCreate(c *gin.Context, user *models.User) {
	if !user.CanCreateCampaigns() {
		c.JSON(http.StatusForbidden, NopeResponse)
		return
	}
	req := CampaignRequest{}
	if !bindJSON(c, &req) {
		return
	}
	campaign, err := models.CampaignCreate(db.Instance, user.ID, req.Name, req.Description, req.Visibility)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// CampaignGet also tells the caller what they may do in the campaign
func CampaignGet(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	info := CampaignInfo{
		Campaign:     scope.Campaign,
		IsOwner:      scope.IsOwner(user),
		Capabilities: scope.Capabilities.Names(),
	}
	if !info.IsOwner {
		role, err := models.NewRoleStore(db.Instance).FindRole(c.Request.Context(), scope.Campaign.ID, user.ID)
		if err != nil && !errors.Is(err, access.ErrNotFound) {
			respondError(c, err)
			return
		}
		info.Role = role
	}
	c.JSON(http.StatusOK, info)
}

func CampaignSave(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	req := CampaignRequest{}
	if !bindJSON(c, &req) {
		return
	}
	campaign := scope.Campaign
	campaign.Name = req.Name
	campaign.Description = req.Description
	if req.Visibility != "" {
		campaign.Visibility = req.Visibility
	}
	if err := db.Instance.Omit(clause.Associations).Save(&campaign).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// CampaignDelete removes everything in the campaign, then the image files
func CampaignDelete(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	images, err := models.DeleteCampaign(db.Instance, scope.Campaign.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range images {
		deleteImageFiles(&images[i])
	}
	c.JSON(http.StatusOK, OKResponse)
}

func deleteImageFiles(image *models.Image) {
	s := storage.StorageFrom(image.BucketID)
	if s == nil {
		log.Printf("Image %s: bucket %d not found", image.ID, image.BucketID)
		return
	}
	for _, path := range []string{image.Path, image.ThumbPath} {
		if path == "" {
			continue
		}
		if err := s.Delete(path); err != nil {
			log.Printf("Image %s: cannot delete %s: %v", image.ID, path, err)
		}
	}
}

// CampaignTransfer makes an existing member the owner, the previous owner
// stays on as admin
func CampaignTransfer(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	req := TransferRequest{}
	if !bindJSON(c, &req) {
		return
	}
	previousOwner := scope.Campaign.OwnerID
	if err := models.TransferCampaign(db.Instance.WithContext(c.Request.Context()), scope.Campaign.ID, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	if previousOwner != req.UserID {
		Publish(scope.Campaign.ID, FeedMessageMember, MemberChange{UserID: req.UserID, Owner: true})
		Publish(scope.Campaign.ID, FeedMessageMember, MemberChange{UserID: previousOwner, Role: string(access.RoleAdmin)})
	}
	c.JSON(http.StatusOK, OKResponse)
}
