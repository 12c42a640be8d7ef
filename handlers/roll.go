package handlers

import (
	"net/http"
	"tavern/auth"
	"tavern/db"
	"tavern/dice"
	"tavern/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

type RollRequest struct {
	Formula string `json:"formula" binding:"required,max=200"`
	Label   string `json:"label" binding:"max=300"`
}

// Roller can be replaced by tests that need known results
var Roller = dice.NewRoller(nil)

func RollList(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	rolls, err := models.CampaignDiceRolls(db.Instance, scope.Campaign.ID, listLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, rolls)
}

func RollCreate(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	req := RollRequest{}
	if !bindJSON(c, &req) {
		return
	}
	result, err := Roller.Roll(req.Formula)
	if err != nil {
		respondError(c, err)
		return
	}
	roll := models.DiceRoll{
		CampaignID: scope.Campaign.ID,
		UserID:     user.ID,
		UserName:   user.Name,
		Label:      req.Label,
		Formula:    result.Formula.String(),
		Total:      result.Total,
		Detail:     result.String(),
	}
	if err = db.Instance.Omit(clause.Associations).Create(&roll).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	Publish(scope.Campaign.ID, FeedMessageRoll, roll)
	c.JSON(http.StatusOK, roll)
}
