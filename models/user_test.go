package models

import (
	"testing"

	"tavern/db"

	"github.com/juju/errors"
)

func TestUserLogin(t *testing.T) {
	db.Instance = openTestDB(t)
	created, err := EnsureAdmin(db.Instance, " Admin@Example.com", "secret")
	if err != nil || !created {
		t.Fatalf("EnsureAdmin() = %v, %v", created, err)
	}
	if created, _ = EnsureAdmin(db.Instance, "other@example.com", "secret"); created {
		t.Error("EnsureAdmin() created a second admin")
	}

	u, err := UserLogin("admin@example.com", "secret")
	if err != nil {
		t.Fatalf("UserLogin() error = %v", err)
	}
	if !u.HasPermission(PermissionAdmin) || !u.CanCreateCampaigns() {
		t.Errorf("admin grants = %v", u.GetPermissions())
	}
	if _, err = UserLogin("admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("UserLogin(wrong password) error = %v", err)
	}
	if _, err = UserLogin("nobody@example.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("UserLogin(unknown) error = %v", err)
	}
}

func TestUser_SetPermissions(t *testing.T) {
	tx := openTestDB(t)
	admin := createUser(t, tx)
	u := createUser(t, tx)
	if err := u.SetPermissions(tx, admin.ID, []Permission{PermissionCanCreateCampaigns, PermissionNone}); err != nil {
		t.Fatal(err)
	}
	loaded := User{}
	tx.Preload("Grants").Take(&loaded, "id = ?", u.ID)
	if !loaded.CanCreateCampaigns() || loaded.HasPermission(PermissionAdmin) || len(loaded.Grants) != 1 {
		t.Errorf("grants = %v", loaded.GetPermissions())
	}
	if err := u.SetPermissions(tx, admin.ID, nil); err != nil {
		t.Fatal(err)
	}
	loaded = User{}
	tx.Preload("Grants").Take(&loaded, "id = ?", u.ID)
	if len(loaded.Grants) != 0 {
		t.Errorf("grants after reset = %v", loaded.GetPermissions())
	}
}
