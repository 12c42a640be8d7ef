package models

import (
	"bytes"
	"context"
	"log"
	"testing"

	"tavern/access"
	"tavern/access/accesstest"
	"tavern/db"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	if err = Migrate(database); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return database
}

// createUser skips password hashing, tests don't log in with these users
func createUser(t *testing.T, tx *gorm.DB) User {
	t.Helper()
	u := User{Name: "user", Email: uuid.NewString() + "@example.com"}
	if err := tx.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createCampaign(t *testing.T, tx *gorm.DB, ownerID string) Campaign {
	t.Helper()
	c, err := CampaignCreate(tx, ownerID, "campaign", "", VisibilityPrivate)
	if err != nil {
		t.Fatalf("CampaignCreate() error = %v", err)
	}
	return c
}

func roleStoreFixture(t *testing.T) accesstest.Fixture {
	tx := openTestDB(t)
	return accesstest.Fixture{
		Store: NewRoleStore(tx),
		NewUser: func(t *testing.T) string {
			return createUser(t, tx).ID
		},
		NewCampaign: func(t *testing.T, ownerID string) string {
			return createCampaign(t, tx, ownerID).ID
		},
	}
}

func TestRoleStore(t *testing.T) {
	accesstest.StoreBehaviour(t, roleStoreFixture)
}

func TestRoleStore_Evaluator(t *testing.T) {
	accesstest.EvaluatorBehaviour(t, roleStoreFixture)
}

func TestRoleStore_NonMemberIsQuiet(t *testing.T) {
	ctx := context.Background()
	tx := openTestDB(t)
	campaign := createCampaign(t, tx, createUser(t, tx).ID)
	stranger := createUser(t, tx)

	out := bytes.Buffer{}
	quiet := tx.Session(&gorm.Session{Logger: logger.New(log.New(&out, "", 0), logger.Config{LogLevel: logger.Warn})})
	e := access.NewEvaluator(NewRoleStore(quiet))
	ok, err := e.HasPermission(ctx, campaign.ID, stranger.ID, access.ViewCampaign)
	if err != nil || ok {
		t.Fatalf("HasPermission(stranger) = %v, %v, want false, nil", ok, err)
	}
	if _, err = NewRoleStore(quiet).FindRole(ctx, campaign.ID, stranger.ID); !errors.Is(err, access.ErrNotFound) {
		t.Fatalf("FindRole(stranger) error = %v, want ErrNotFound", err)
	}
	if out.Len() > 0 {
		t.Errorf("looking up a non-member logged %q", out.String())
	}
}

func TestRoleStore_OneRowPerMember(t *testing.T) {
	ctx := context.Background()
	tx := openTestDB(t)
	store := NewRoleStore(tx)
	campaign := createCampaign(t, tx, createUser(t, tx).ID)
	user := createUser(t, tx)
	for _, role := range []access.Role{access.RoleViewer, access.RoleMember, access.RoleAdmin, access.RoleMember} {
		if err := store.UpsertRole(ctx, campaign.ID, user.ID, role); err != nil {
			t.Fatalf("UpsertRole(%s) error = %v", role, err)
		}
	}
	var count int64
	tx.Model(&CampaignRole{}).Where("campaign_id = ? AND user_id = ?", campaign.ID, user.ID).Count(&count)
	if count != 1 {
		t.Errorf("role rows = %d, want 1", count)
	}
	if role, _ := store.FindRole(ctx, campaign.ID, user.ID); role != access.RoleMember {
		t.Errorf("FindRole() = %s, want MEMBER", role)
	}
}

func TestRoleStore_UpsertUnknownCampaign(t *testing.T) {
	tx := openTestDB(t)
	err := NewRoleStore(tx).UpsertRole(context.Background(), uuid.NewString(), createUser(t, tx).ID, access.RoleViewer)
	if !errors.Is(err, access.ErrNotFound) {
		t.Errorf("UpsertRole(unknown campaign) error = %v, want ErrNotFound", err)
	}
}

func TestTransferCampaign(t *testing.T) {
	ctx := context.Background()
	tx := openTestDB(t)
	store := NewRoleStore(tx)
	owner := createUser(t, tx)
	member := createUser(t, tx)
	campaign := createCampaign(t, tx, owner.ID)

	if err := TransferCampaign(tx, campaign.ID, member.ID); !errors.Is(err, ErrNotMember) {
		t.Fatalf("TransferCampaign(non-member) error = %v, want ErrNotMember", err)
	}
	if err := TransferCampaign(tx, uuid.NewString(), member.ID); !errors.Is(err, access.ErrNotFound) {
		t.Fatalf("TransferCampaign(unknown) error = %v, want ErrNotFound", err)
	}
	if err := store.UpsertRole(ctx, campaign.ID, member.ID, access.RoleMember); err != nil {
		t.Fatal(err)
	}
	if err := TransferCampaign(tx, campaign.ID, member.ID); err != nil {
		t.Fatalf("TransferCampaign() error = %v", err)
	}
	if ownerID, _ := store.FindOwnerID(ctx, campaign.ID); ownerID != member.ID {
		t.Errorf("owner after transfer = %q, want %q", ownerID, member.ID)
	}
	if _, err := store.FindRole(ctx, campaign.ID, member.ID); !errors.Is(err, access.ErrNotFound) {
		t.Errorf("new owner kept a role row: %v", err)
	}
	if role, err := store.FindRole(ctx, campaign.ID, owner.ID); err != nil || role != access.RoleAdmin {
		t.Errorf("previous owner role = %s, %v, want ADMIN", role, err)
	}
	err := access.NewEvaluator(store).RemoveCampaignMember(ctx, campaign.ID, member.ID)
	if !errors.Is(err, access.ErrOwnerRemovalForbidden) {
		t.Errorf("RemoveCampaignMember(new owner) error = %v", err)
	}
}

func TestCampaignsForUser(t *testing.T) {
	ctx := context.Background()
	tx := openTestDB(t)
	owner := createUser(t, tx)
	viewer := createUser(t, tx)
	owned := createCampaign(t, tx, owner.ID)
	joined := createCampaign(t, tx, viewer.ID)
	createCampaign(t, tx, viewer.ID)
	if err := NewRoleStore(tx).UpsertRole(ctx, joined.ID, owner.ID, access.RoleViewer); err != nil {
		t.Fatal(err)
	}

	list, err := CampaignsForUser(tx, owner.ID)
	if err != nil {
		t.Fatalf("CampaignsForUser() error = %v", err)
	}
	roles := map[string]access.Role{}
	for _, c := range list {
		roles[c.ID] = c.Role
	}
	want := map[string]access.Role{owned.ID: "", joined.ID: access.RoleViewer}
	if len(roles) != len(want) {
		t.Fatalf("CampaignsForUser() = %v, want %v", roles, want)
	}
	for id, role := range want {
		if got, ok := roles[id]; !ok || got != role {
			t.Errorf("campaign %s role = %q, want %q", id, got, role)
		}
	}

	members, err := CampaignMembers(tx, &joined)
	if err != nil {
		t.Fatalf("CampaignMembers() error = %v", err)
	}
	if len(members) != 2 || !members[0].IsOwner || members[0].UserID != viewer.ID || members[1].Role != access.RoleViewer {
		t.Errorf("CampaignMembers() = %+v", members)
	}
}
