package accesstest

import (
	"context"
	"testing"

	"tavern/access"

	"github.com/juju/errors"
)

// EvaluatorBehaviour checks the access.Evaluator rules against a store
func EvaluatorBehaviour(t *testing.T, setup func(t *testing.T) Fixture) {
	ctx := context.Background()

	t.Run("owner holds every capability", func(t *testing.T) {
		f := setup(t)
		owner := f.NewUser(t)
		campaign := f.NewCampaign(t, owner)
		e := access.NewEvaluator(f.Store)
		for _, c := range access.AllCapabilities() {
			ok, err := e.HasPermission(ctx, campaign, owner, c)
			if err != nil || !ok {
				t.Errorf("HasPermission(owner, %s) = %v, %v, want true", c, ok, err)
			}
		}
	})

	t.Run("owner bypass ignores a stray role row", func(t *testing.T) {
		f := setup(t)
		owner := f.NewUser(t)
		campaign := f.NewCampaign(t, owner)
		if err := f.Store.UpsertRole(ctx, campaign, owner, access.RoleViewer); err != nil {
			t.Fatal(err)
		}
		ok, err := access.NewEvaluator(f.Store).HasPermission(ctx, campaign, owner, access.DeleteCampaign)
		if err != nil || !ok {
			t.Errorf("HasPermission(owner, DELETE_CAMPAIGN) = %v, %v, want true", ok, err)
		}
	})

	t.Run("non-members hold nothing", func(t *testing.T) {
		f := setup(t)
		campaign := f.NewCampaign(t, f.NewUser(t))
		stranger := f.NewUser(t)
		e := access.NewEvaluator(f.Store)
		for _, c := range access.AllCapabilities() {
			ok, err := e.HasPermission(ctx, campaign, stranger, c)
			if err != nil || ok {
				t.Errorf("HasPermission(stranger, %s) = %v, %v, want false", c, ok, err)
			}
		}
	})

	t.Run("members hold exactly their role's capabilities", func(t *testing.T) {
		f := setup(t)
		campaign := f.NewCampaign(t, f.NewUser(t))
		e := access.NewEvaluator(f.Store)
		for _, role := range access.Roles {
			user := f.NewUser(t)
			if err := f.Store.UpsertRole(ctx, campaign, user, role); err != nil {
				t.Fatal(err)
			}
			for _, c := range access.AllCapabilities() {
				ok, err := e.HasPermission(ctx, campaign, user, c)
				if err != nil {
					t.Fatalf("HasPermission(%s, %s) error = %v", role, c, err)
				}
				if want := role.Can(c); ok != want {
					t.Errorf("HasPermission(%s, %s) = %v, want %v", role, c, ok, want)
				}
			}
		}
	})

	t.Run("grant then check", func(t *testing.T) {
		f := setup(t)
		campaign := f.NewCampaign(t, f.NewUser(t))
		user := f.NewUser(t)
		if err := f.Store.UpsertRole(ctx, campaign, user, access.RoleMember); err != nil {
			t.Fatal(err)
		}
		ok, err := access.NewEvaluator(f.Store).HasPermission(ctx, campaign, user, access.EditEntities)
		if err != nil || ok != access.RoleMember.Can(access.EditEntities) {
			t.Errorf("HasPermission(member, EDIT_ENTITIES) = %v, %v", ok, err)
		}
	})

	t.Run("leave as member", func(t *testing.T) {
		f := setup(t)
		campaign := f.NewCampaign(t, f.NewUser(t))
		user := f.NewUser(t)
		e := access.NewEvaluator(f.Store)
		if err := f.Store.UpsertRole(ctx, campaign, user, access.RoleMember); err != nil {
			t.Fatal(err)
		}
		if err := e.RemoveCampaignMember(ctx, campaign, user); err != nil {
			t.Fatalf("RemoveCampaignMember() error = %v", err)
		}
		ok, err := e.HasPermission(ctx, campaign, user, access.EditEntities)
		if err != nil || ok {
			t.Errorf("HasPermission() after leaving = %v, %v, want false", ok, err)
		}
	})

	t.Run("removal is idempotent", func(t *testing.T) {
		f := setup(t)
		campaign := f.NewCampaign(t, f.NewUser(t))
		user := f.NewUser(t)
		e := access.NewEvaluator(f.Store)
		if err := f.Store.UpsertRole(ctx, campaign, user, access.RoleAdmin); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2; i++ {
			if err := e.RemoveCampaignMember(ctx, campaign, user); err != nil {
				t.Fatalf("RemoveCampaignMember() #%d error = %v", i+1, err)
			}
		}
		if _, err := f.Store.FindRole(ctx, campaign, user); !errors.Is(err, access.ErrNotFound) {
			t.Errorf("FindRole() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("remove non-member", func(t *testing.T) {
		f := setup(t)
		campaign := f.NewCampaign(t, f.NewUser(t))
		if err := access.NewEvaluator(f.Store).RemoveCampaignMember(ctx, campaign, f.NewUser(t)); err != nil {
			t.Errorf("RemoveCampaignMember(non-member) error = %v", err)
		}
	})

	t.Run("owner cannot be removed", func(t *testing.T) {
		f := setup(t)
		owner := f.NewUser(t)
		campaign := f.NewCampaign(t, owner)
		e := access.NewEvaluator(f.Store)
		if err := e.RemoveCampaignMember(ctx, campaign, owner); !errors.Is(err, access.ErrOwnerRemovalForbidden) {
			t.Errorf("RemoveCampaignMember(owner) error = %v, want ErrOwnerRemovalForbidden", err)
		}
		// a role row for the owner changes nothing and survives the attempt
		if err := f.Store.UpsertRole(ctx, campaign, owner, access.RoleMember); err != nil {
			t.Fatal(err)
		}
		if err := e.RemoveCampaignMember(ctx, campaign, owner); !errors.Is(err, access.ErrOwnerRemovalForbidden) {
			t.Errorf("RemoveCampaignMember(owner with role) error = %v, want ErrOwnerRemovalForbidden", err)
		}
		if _, err := f.Store.FindRole(ctx, campaign, owner); err != nil {
			t.Errorf("FindRole(owner) error = %v, the failed removal must not delete anything", err)
		}
	})

	t.Run("owner cannot be given a role", func(t *testing.T) {
		f := setup(t)
		owner := f.NewUser(t)
		campaign := f.NewCampaign(t, owner)
		err := access.NewEvaluator(f.Store).SetMemberRole(ctx, campaign, owner, access.RoleViewer)
		if !errors.Is(err, access.ErrOwnerRoleForbidden) {
			t.Errorf("SetMemberRole(owner) error = %v, want ErrOwnerRoleForbidden", err)
		}
	})

	t.Run("join never downgrades", func(t *testing.T) {
		f := setup(t)
		owner := f.NewUser(t)
		campaign := f.NewCampaign(t, owner)
		user := f.NewUser(t)
		e := access.NewEvaluator(f.Store)
		if err := e.SetMemberRole(ctx, campaign, user, access.RoleAdmin); err != nil {
			t.Fatal(err)
		}
		joined, err := e.JoinCampaign(ctx, campaign, user, access.RoleViewer)
		if err != nil || joined {
			t.Errorf("JoinCampaign(existing admin) = %v, %v, want false, nil", joined, err)
		}
		if role, _ := f.Store.FindRole(ctx, campaign, user); role != access.RoleAdmin {
			t.Errorf("role after JoinCampaign = %s, want ADMIN", role)
		}
		joined, err = e.JoinCampaign(ctx, campaign, owner, access.RoleViewer)
		if err != nil || joined {
			t.Errorf("JoinCampaign(owner) = %v, %v, want false, nil", joined, err)
		}
		newcomer := f.NewUser(t)
		joined, err = e.JoinCampaign(ctx, campaign, newcomer, access.RoleViewer)
		if err != nil || !joined {
			t.Errorf("JoinCampaign(newcomer) = %v, %v, want true, nil", joined, err)
		}
	})

	t.Run("unknown campaign", func(t *testing.T) {
		f := setup(t)
		_, err := access.NewEvaluator(f.Store).HasPermission(ctx, "no-such-campaign", f.NewUser(t), access.ViewCampaign)
		if !errors.Is(err, access.ErrNotFound) {
			t.Errorf("HasPermission(unknown campaign) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		f := setup(t)
		owner := f.NewUser(t)
		campaign := f.NewCampaign(t, owner)
		e := access.NewEvaluator(f.Store)
		cases := []struct {
			name       string
			campaign   string
			user       string
			capability access.Capability
		}{
			{"empty campaign", "", owner, access.ViewCampaign},
			{"empty user", campaign, "", access.ViewCampaign},
			{"zero capability", campaign, owner, 0},
			{"unknown capability", campaign, owner, access.Capability(200)},
		}
		for _, tc := range cases {
			if _, err := e.HasPermission(ctx, tc.campaign, tc.user, tc.capability); !errors.Is(err, access.ErrInvalidInput) {
				t.Errorf("%s: HasPermission() error = %v, want ErrInvalidInput", tc.name, err)
			}
		}
	})
}
