package auth

import (
	"tavern/db"
	"tavern/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userIdKey = "id"

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(user *models.User) error {
	s.Clear()
	s.Set(userIdKey, user.ID)
	return s.Save()
}

func (s *Session) LogoutUser() {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = s.Save()
}

// User returns an empty user (ID == "") when nobody is signed in
func (s *Session) User() (user models.User) {
	id, ok := s.Get(userIdKey).(string)
	if !ok || id == "" {
		return
	}
	if db.Instance.Preload("Grants").Take(&user, "id = ?", id).Error != nil {
		return models.User{}
	}
	return
}
