package access_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"tavern/access"
	"tavern/access/accesstest"

	"github.com/juju/errors"
)

func memoryFixture(t *testing.T) accesstest.Fixture {
	store := access.NewMemoryStore()
	users, campaigns := 0, 0
	return accesstest.Fixture{
		Store: store,
		NewUser: func(t *testing.T) string {
			users++
			return fmt.Sprintf("user-%d", users)
		},
		NewCampaign: func(t *testing.T, ownerID string) string {
			campaigns++
			id := fmt.Sprintf("campaign-%d", campaigns)
			store.SetOwner(id, ownerID)
			return id
		},
	}
}

func TestMemoryStore(t *testing.T) {
	accesstest.StoreBehaviour(t, memoryFixture)
}

func TestEvaluator(t *testing.T) {
	accesstest.EvaluatorBehaviour(t, memoryFixture)
}

func TestEvaluator_Scenarios(t *testing.T) {
	ctx := context.Background()
	store := access.NewMemoryStore()
	store.SetOwner("C1", "U2")
	e := access.NewEvaluator(store)

	if err := store.UpsertRole(ctx, "C1", "U1", access.RoleMember); err != nil {
		t.Fatal(err)
	}
	ok, err := e.HasPermission(ctx, "C1", "U1", access.EditEntities)
	if err != nil || !ok {
		t.Errorf("member EDIT_ENTITIES = %v, %v, want true", ok, err)
	}
	if err = e.RemoveCampaignMember(ctx, "C1", "U1"); err != nil {
		t.Fatalf("leave as member: %v", err)
	}
	if ok, _ = e.HasPermission(ctx, "C1", "U1", access.EditEntities); ok {
		t.Errorf("EDIT_ENTITIES after leaving = true")
	}
	if err = e.RemoveCampaignMember(ctx, "C1", "U2"); err != access.ErrOwnerRemovalForbidden {
		t.Errorf("leave as owner error = %v", err)
	}
	if err = e.RemoveCampaignMember(ctx, "C1", "U3"); err != nil {
		t.Errorf("remove non-member error = %v", err)
	}
}

func TestEvaluator_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := access.NewMemoryStore()
	store.SetOwner("C1", "owner")
	e := access.NewEvaluator(store)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		user := fmt.Sprintf("user-%d", i%5)
		go func() {
			defer wg.Done()
			_ = e.SetMemberRole(ctx, "C1", user, access.RoleViewer)
			_ = e.RemoveCampaignMember(ctx, "C1", user)
		}()
		go func() {
			defer wg.Done()
			if ok, err := e.HasPermission(ctx, "C1", "owner", access.ManageMembers); err != nil || !ok {
				t.Errorf("owner HasPermission = %v, %v", ok, err)
			}
		}()
	}
	wg.Wait()
}

func TestEvaluator_Capabilities(t *testing.T) {
	ctx := context.Background()
	store := access.NewMemoryStore()
	store.SetOwner("C1", "owner")
	_ = store.UpsertRole(ctx, "C1", "viewer", access.RoleViewer)
	e := access.NewEvaluator(store)

	tests := []struct {
		user string
		want access.CapabilitySet
	}{
		{"owner", access.Everything},
		{"viewer", access.RoleViewer.Capabilities()},
		{"stranger", 0},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			got, err := e.Capabilities(ctx, "C1", tt.user)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Capabilities() = %v, want %v", got.Names(), tt.want.Names())
			}
		})
	}
}

var errBroken = errors.ConstError("store unavailable")

// brokenStore fails the operations whose error is set, inside transactions too
type brokenStore struct {
	access.Store
	findRole, upsertRole, deleteRole, findOwner error
}

func (s *brokenStore) FindRole(ctx context.Context, campaignID, userID string) (access.Role, error) {
	if s.findRole != nil {
		return "", s.findRole
	}
	return s.Store.FindRole(ctx, campaignID, userID)
}

func (s *brokenStore) UpsertRole(ctx context.Context, campaignID, userID string, role access.Role) error {
	if s.upsertRole != nil {
		return s.upsertRole
	}
	return s.Store.UpsertRole(ctx, campaignID, userID, role)
}

func (s *brokenStore) DeleteRole(ctx context.Context, campaignID, userID string) error {
	if s.deleteRole != nil {
		return s.deleteRole
	}
	return s.Store.DeleteRole(ctx, campaignID, userID)
}

func (s *brokenStore) FindOwnerID(ctx context.Context, campaignID string) (string, error) {
	if s.findOwner != nil {
		return "", s.findOwner
	}
	return s.Store.FindOwnerID(ctx, campaignID)
}

func (s *brokenStore) Transaction(ctx context.Context, fn func(tx access.Store) error) error {
	return s.Store.Transaction(ctx, func(tx access.Store) error {
		inner := *s
		inner.Store = tx
		return fn(&inner)
	})
}

func TestEvaluator_StoreFailures(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		store brokenStore
		call  func(e *access.Evaluator) error
	}{
		{
			name:  "remove with failing delete",
			store: brokenStore{deleteRole: errBroken},
			call: func(e *access.Evaluator) error {
				return e.RemoveCampaignMember(ctx, "C1", "U1")
			},
		},
		{
			name:  "remove with failing owner lookup",
			store: brokenStore{findOwner: errBroken},
			call: func(e *access.Evaluator) error {
				return e.RemoveCampaignMember(ctx, "C1", "U1")
			},
		},
		{
			name:  "check with failing owner lookup",
			store: brokenStore{findOwner: errBroken},
			call: func(e *access.Evaluator) error {
				_, err := e.HasPermission(ctx, "C1", "U1", access.ViewCampaign)
				return err
			},
		},
		{
			name:  "check with failing role lookup",
			store: brokenStore{findRole: errBroken},
			call: func(e *access.Evaluator) error {
				_, err := e.HasPermission(ctx, "C1", "U1", access.ViewCampaign)
				return err
			},
		},
		{
			name:  "set role with failing owner lookup",
			store: brokenStore{findOwner: errBroken},
			call: func(e *access.Evaluator) error {
				return e.SetMemberRole(ctx, "C1", "U1", access.RoleViewer)
			},
		},
		{
			name:  "set role with failing upsert",
			store: brokenStore{upsertRole: errBroken},
			call: func(e *access.Evaluator) error {
				return e.SetMemberRole(ctx, "C1", "U1", access.RoleViewer)
			},
		},
		{
			name:  "join with failing role lookup",
			store: brokenStore{findRole: errBroken},
			call: func(e *access.Evaluator) error {
				_, err := e.JoinCampaign(ctx, "C1", "U2", access.RoleViewer)
				return err
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memory := access.NewMemoryStore()
			memory.SetOwner("C1", "owner")
			if err := memory.UpsertRole(ctx, "C1", "U1", access.RoleMember); err != nil {
				t.Fatal(err)
			}
			store := tt.store
			store.Store = memory
			if err := tt.call(access.NewEvaluator(&store)); !errors.Is(err, errBroken) {
				t.Errorf("error = %v, want %v", err, errBroken)
			}
			if role, err := memory.FindRole(ctx, "C1", "U1"); err != nil || role != access.RoleMember {
				t.Errorf("FindRole() after failure = %s, %v, want MEMBER", role, err)
			}
			if _, err := memory.FindRole(ctx, "C1", "U2"); !errors.Is(err, access.ErrNotFound) {
				t.Errorf("FindRole(U2) after failure error = %v, want ErrNotFound", err)
			}
		})
	}
}
