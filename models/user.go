package models

import (
	"strings"
	"tavern/db"

	"github.com/juju/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const ErrInvalidCredentials = errors.ConstError("invalid email or password")

type User struct {
	Base
	Name     string  `gorm:"type:varchar(100)" json:"name"`
	Email    string  `gorm:"type:varchar(150);index:uniq_email,unique" json:"email"`
	Password string  `gorm:"type:varchar(128)" json:"-"`
	Grants   []Grant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func UserCreate(tx *gorm.DB, name, email, plainTextPassword string, permissions ...Permission) (u User, err error) {
	u.Name = name
	u.Email = normalizeEmail(email)
	if err = u.SetPassword(plainTextPassword); err != nil {
		return
	}
	for _, p := range permissions {
		u.Grants = append(u.Grants, Grant{Permission: p})
	}
	return u, tx.Create(&u).Error
}

func (u *User) SetPassword(plainTextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func UserLogin(email, plainTextPassword string) (u User, err error) {
	result := db.Instance.Preload("Grants").First(&u, "email = ?", normalizeEmail(email))
	if result.Error != nil {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plainTextPassword)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// SetPermissions replaces all grants of the user
func (u *User) SetPermissions(tx *gorm.DB, grantorID string, permissions []Permission) error {
	return tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", u.ID).Delete(&Grant{}).Error; err != nil {
			return err
		}
		u.Grants = []Grant{}
		for _, p := range permissions {
			if p == PermissionNone {
				continue
			}
			u.Grants = append(u.Grants, Grant{GrantorID: &grantorID, UserID: u.ID, Permission: p})
		}
		if len(u.Grants) == 0 {
			return nil
		}
		return tx.Create(&u.Grants).Error
	})
}

func (u *User) GetPermissions() []int {
	permissions := []int{}
	for _, grant := range u.Grants {
		permissions = append(permissions, int(grant.Permission))
	}
	return permissions
}

func (u *User) HasPermission(required Permission) bool {
	for _, permission := range u.Grants {
		if permission.Permission == required {
			return true
		}
	}
	return false
}

func (u *User) HasPermissions(required []Permission) bool {
	for _, permission := range required {
		if !u.HasPermission(permission) {
			return false
		}
	}
	return true
}

func (u *User) CanCreateCampaigns() bool {
	return u.HasPermission(PermissionAdmin) || u.HasPermission(PermissionCanCreateCampaigns)
}

// EnsureAdmin creates the first site admin on an empty database
func EnsureAdmin(tx *gorm.DB, email, plainTextPassword string) (created bool, err error) {
	if email == "" || plainTextPassword == "" {
		return false, nil
	}
	var count int64
	if err = tx.Model(&User{}).Count(&count).Error; err != nil || count > 0 {
		return false, err
	}
	_, err = UserCreate(tx, "Admin", email, plainTextPassword, PermissionAdmin, PermissionCanCreateCampaigns)
	return err == nil, err
}
