package handlers

import (
	"net/http"
	"tavern/auth"
	"tavern/db"
	"tavern/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

type UserLoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UserSaveRequest struct {
	ID          string              `json:"id"`
	Name        string              `json:"name" binding:"required,max=100"`
	Email       string              `json:"email" binding:"required,email"`
	Password    string              `json:"password"`
	Permissions []models.Permission `json:"permissions"`
}

type UserIDRequest struct {
	ID string `json:"id" binding:"required"`
}

type UserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func UserLogin(c *gin.Context) {
	postReq := UserLoginRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := models.UserLogin(postReq.Email, postReq.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err = auth.LoadSession(c).LoginUser(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "id": user.ID, "name": user.Name, "permissions": user.GetPermissions()})
}

func UserLogout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}

func UserGetStatus(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, gin.H{
		"error":       "",
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"permissions": user.GetPermissions(),
	})
}

func UserList(c *gin.Context, user *models.User) {
	result := []UserInfo{}
	err := db.Instance.Model(&models.User{}).
		Select("id, name").
		Where("id != ?", user.ID).
		Order("name").
		Scan(&result).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UserSave creates (empty ID) or updates a user, site admins only
func UserSave(c *gin.Context, user *models.User) {
	req := UserSaveRequest{}
	if !bindJSON(c, &req) {
		return
	}
	saved := models.User{}
	err := db.Instance.Transaction(func(tx *gorm.DB) (err error) {
		if req.ID == "" {
			if req.Password == "" {
				return errors.NotValidf("empty password")
			}
			saved, err = models.UserCreate(tx, req.Name, req.Email, req.Password)
			if err != nil {
				return err
			}
		} else {
			if err = tx.Take(&saved, "id = ?", req.ID).Error; err != nil {
				return err
			}
			saved.Name = req.Name
			saved.Email = req.Email
			if req.Password != "" {
				if err = saved.SetPassword(req.Password); err != nil {
					return err
				}
			}
			if err = tx.Omit("Grants").Save(&saved).Error; err != nil {
				return err
			}
		}
		return saved.SetPermissions(tx, user.ID, req.Permissions)
	})
	switch {
	case errors.Is(err, errors.NotValid):
		c.JSON(http.StatusBadRequest, Response{err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, Response{"user not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"error": "", "id": saved.ID})
	}
}

// UserDelete is allowed to site admins and to the user itself. Users owning
// campaigns have to transfer or delete them first.
func UserDelete(c *gin.Context, user *models.User) {
	req := UserIDRequest{}
	if !bindJSON(c, &req) {
		return
	}
	if req.ID != user.ID && !user.HasPermission(models.PermissionAdmin) {
		c.JSON(http.StatusForbidden, NopeResponse)
		return
	}
	var owned int64
	if err := db.Instance.Model(&models.Campaign{}).Where("owner_id = ?", req.ID).Count(&owned).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	if owned > 0 {
		c.JSON(http.StatusBadRequest, Response{"user still owns campaigns"})
		return
	}
	if err := db.Instance.Delete(&models.User{}, "id = ?", req.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	if req.ID == user.ID {
		auth.LoadSession(c).LogoutUser()
	}
	c.JSON(http.StatusOK, OKResponse)
}
