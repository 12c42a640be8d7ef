package auth

import (
	"net/http"
	"tavern/access"
	"tavern/db"
	"tavern/models"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
)

// User is authenticated and posseses the required permissions
type HandlerFunc func(c *gin.Context, user *models.User)

// CampaignHandlerFunc additionally gets the campaign of the ":campaign" path
// parameter, the user holds the capability the route requires in it
type CampaignHandlerFunc func(c *gin.Context, user *models.User, scope *CampaignScope)

// CampaignScope is the campaign a request works on and what the user may do there
type CampaignScope struct {
	Campaign     models.Campaign
	Capabilities access.CapabilitySet
}

func (s *CampaignScope) Can(capability access.Capability) bool {
	return s.Capabilities.Has(capability)
}

func (s *CampaignScope) IsOwner(user *models.User) bool {
	return s.Campaign.OwnerID == user.ID
}

// Router is a wrapper class that adds auth checks + User pre-loading
type Router struct {
	Base      gin.IRouter
	Evaluator *access.Evaluator
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, required []models.Permission) {
	session := LoadSession(c)
	user := session.User()
	if user.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": access.ErrUnauthenticated.Error()})
		return
	}
	if !user.HasPermissions(required) {
		c.JSON(http.StatusForbidden, gin.H{"error": access.ErrForbidden.Error()})
		return
	}
	handler(c, &user)
}

// campaignExec answers 401 without a user, 404 for unknown campaigns and
// 403 when the capability is missing, in that order
func (cr *Router) campaignExec(c *gin.Context, handler CampaignHandlerFunc, required access.Capability) {
	user := LoadSession(c).User()
	if user.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": access.ErrUnauthenticated.Error()})
		return
	}
	campaign, err := models.LoadCampaign(db.Instance, c.Param("campaign"))
	if errors.Is(err, access.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	capabilities, err := cr.Evaluator.Capabilities(c.Request.Context(), campaign.ID, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if campaign.IsPublic() {
		capabilities |= access.NewCapabilitySet(access.ViewCampaign)
	}
	if !capabilities.Has(required) {
		c.JSON(http.StatusForbidden, gin.H{"error": access.ErrForbidden.Error()})
		return
	}
	handler(c, &user, &CampaignScope{Campaign: campaign, Capabilities: capabilities})
}

func (cr *Router) POST(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) PUT(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) DELETE(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.DELETE(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) CampaignGET(path string, handler CampaignHandlerFunc, required access.Capability) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.campaignExec(c, handler, required)
	})
}

func (cr *Router) CampaignPOST(path string, handler CampaignHandlerFunc, required access.Capability) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.campaignExec(c, handler, required)
	})
}

func (cr *Router) CampaignPUT(path string, handler CampaignHandlerFunc, required access.Capability) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.campaignExec(c, handler, required)
	})
}

func (cr *Router) CampaignDELETE(path string, handler CampaignHandlerFunc, required access.Capability) {
	cr.Base.DELETE(path, func(c *gin.Context) {
		cr.campaignExec(c, handler, required)
	})
}
