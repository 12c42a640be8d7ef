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
	"gorm.io/gorm/clause"
)

type PostRequest struct {
	Title   string `json:"title" binding:"required,max=300"`
	Content string `json:"content"`
}

func PostList(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	posts, err := models.CampaignPosts(db.Instance, scope.Campaign.ID, listLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func PostCreate(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	req := PostRequest{}
	if !bindJSON(c, &req) {
		return
	}
	post := models.Post{
		CampaignID: scope.Campaign.ID,
		AuthorID:   user.ID,
		Title:      req.Title,
		Content:    req.Content,
	}
	if err := db.Instance.Omit(clause.Associations).Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	post.Author = models.User{Base: models.Base{ID: user.ID}, Name: user.Name}
	Publish(scope.Campaign.ID, FeedMessagePost, post)
	c.JSON(http.StatusOK, post)
}

func findPost(c *gin.Context, scope *auth.CampaignScope) (post models.Post, ok bool) {
	err := post.PreloadAuthor(db.Instance).Take(&post, "id = ? AND campaign_id = ?", c.Param("id"), scope.Campaign.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, Response{"post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	return post, true
}

// PostSave is limited to the author
func PostSave(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	post, ok := findPost(c, scope)
	if !ok {
		return
	}
	if post.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, NopeResponse)
		return
	}
	req := PostRequest{}
	if !bindJSON(c, &req) {
		return
	}
	post.Title = req.Title
	post.Content = req.Content
	if err := db.Instance.Omit(clause.Associations).Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, post)
}

// PostDelete is allowed to whoever may delete campaign content and to the
// author while they can still create posts
func PostDelete(c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	post, ok := findPost(c, scope)
	if !ok {
		return
	}
	if !scope.Can(access.DeleteEntities) && (post.AuthorID != user.ID || !scope.Can(access.CreatePosts)) {
		c.JSON(http.StatusForbidden, NopeResponse)
		return
	}
	if err := db.Instance.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
