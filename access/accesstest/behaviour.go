// Package accesstest holds behaviour tests shared by every access.Store
// implementation.
package accesstest

import (
	"context"
	"testing"

	"tavern/access"

	"github.com/juju/errors"
)

// Fixture is a fresh store together with helpers that create the users and
// campaigns the store refers to.
type Fixture struct {
	Store       access.Store
	NewUser     func(t *testing.T) string
	NewCampaign func(t *testing.T, ownerID string) string
}

var errRollback = errors.ConstError("rollback")

// StoreBehaviour checks the access.Store contract
func StoreBehaviour(t *testing.T, setup func(t *testing.T) Fixture) {
	ctx := context.Background()

	t.Run("FindRole without a role", func(t *testing.T) {
		f := setup(t)
		campaign := f.NewCampaign(t, f.NewUser(t))
		_, err := f.Store.FindRole(ctx, campaign, f.NewUser(t))
		if !errors.Is(err, access.ErrNotFound) {
			t.Fatalf("FindRole() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("UpsertRole replaces the existing role", func(t *testing.T) {
		f := setup(t)
		campaign := f.NewCampaign(t, f.NewUser(t))
		user := f.NewUser(t)
		for _, role := range []access.Role{access.RoleViewer, access.RoleAdmin, access.RoleMember} {
			if err := f.Store.UpsertRole(ctx, campaign, user, role); err != nil {
				t.Fatalf("UpsertRole(%s) error = %v", role, err)
			}
			got, err := f.Store.FindRole(ctx, campaign, user)
			if err != nil {
				t.Fatalf("FindRole() error = %v", err)
			}
			if got != role {
				t.Errorf("FindRole() = %s, want %s", got, role)
			}
		}
	})

	t.Run("roles are scoped to the campaign", func(t *testing.T) {
		f := setup(t)
		owner := f.NewUser(t)
		first := f.NewCampaign(t, owner)
		second := f.NewCampaign(t, owner)
		user := f.NewUser(t)
		if err := f.Store.UpsertRole(ctx, first, user, access.RoleAdmin); err != nil {
			t.Fatal(err)
		}
		if _, err := f.Store.FindRole(ctx, second, user); !errors.Is(err, access.ErrNotFound) {
			t.Errorf("FindRole() in another campaign error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteRole is idempotent", func(t *testing.T) {
		f := setup(t)
		campaign := f.NewCampaign(t, f.NewUser(t))
		user := f.NewUser(t)
		if err := f.Store.UpsertRole(ctx, campaign, user, access.RoleMember); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2; i++ {
			if err := f.Store.DeleteRole(ctx, campaign, user); err != nil {
				t.Fatalf("DeleteRole() #%d error = %v", i+1, err)
			}
		}
		if _, err := f.Store.FindRole(ctx, campaign, user); !errors.Is(err, access.ErrNotFound) {
			t.Errorf("FindRole() after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("FindOwnerID", func(t *testing.T) {
		f := setup(t)
		owner := f.NewUser(t)
		campaign := f.NewCampaign(t, owner)
		got, err := f.Store.FindOwnerID(ctx, campaign)
		if err != nil {
			t.Fatalf("FindOwnerID() error = %v", err)
		}
		if got != owner {
			t.Errorf("FindOwnerID() = %q, want %q", got, owner)
		}
		if _, err = f.Store.FindOwnerID(ctx, "no-such-campaign"); !errors.Is(err, access.ErrNotFound) {
			t.Errorf("FindOwnerID(unknown) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Transaction rolls back on error", func(t *testing.T) {
		f := setup(t)
		campaign := f.NewCampaign(t, f.NewUser(t))
		user := f.NewUser(t)
		err := f.Store.Transaction(ctx, func(tx access.Store) error {
			if err := tx.UpsertRole(ctx, campaign, user, access.RoleAdmin); err != nil {
				return err
			}
			return errRollback
		})
		if !errors.Is(err, errRollback) {
			t.Fatalf("Transaction() error = %v, want errRollback", err)
		}
		if _, err = f.Store.FindRole(ctx, campaign, user); !errors.Is(err, access.ErrNotFound) {
			t.Errorf("FindRole() after rollback error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Transaction commits", func(t *testing.T) {
		f := setup(t)
		owner := f.NewUser(t)
		campaign := f.NewCampaign(t, owner)
		user := f.NewUser(t)
		err := f.Store.Transaction(ctx, func(tx access.Store) error {
			ownerID, err := tx.FindOwnerID(ctx, campaign)
			if err != nil {
				return err
			}
			if ownerID != owner {
				t.Errorf("FindOwnerID() inside transaction = %q, want %q", ownerID, owner)
			}
			return tx.UpsertRole(ctx, campaign, user, access.RoleViewer)
		})
		if err != nil {
			t.Fatalf("Transaction() error = %v", err)
		}
		got, err := f.Store.FindRole(ctx, campaign, user)
		if err != nil || got != access.RoleViewer {
			t.Errorf("FindRole() = %s, %v, want VIEWER", got, err)
		}
	})
}
