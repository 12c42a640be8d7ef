package access

import (
	"context"

	"github.com/juju/errors"
)

// Evaluator answers "can user U do C in campaign X" and applies the
// membership changes that depend on campaign ownership.
//
// The user identity is always passed in by the caller: the evaluator does no
// authentication of its own.
type Evaluator struct {
	store Store
}

func NewEvaluator(store Store) *Evaluator {
	return &Evaluator{store: store}
}

// Capabilities returns the effective capability set of the user in the
// campaign: Everything for the owner, the role set for members and an empty
// set otherwise. Unknown campaigns return ErrNotFound.
func (e *Evaluator) Capabilities(ctx context.Context, campaignID, userID string) (CapabilitySet, error) {
	if campaignID == "" || userID == "" {
		return 0, ErrInvalidInput
	}
	ownerID, err := e.store.FindOwnerID(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	if ownerID == userID {
		return Everything, nil
	}
	role, err := e.store.FindRole(ctx, campaignID, userID)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return role.Capabilities(), nil
}

// HasPermission reports whether the user holds the capability in the campaign.
func (e *Evaluator) HasPermission(ctx context.Context, campaignID, userID string, capability Capability) (bool, error) {
	if !capability.Valid() {
		return false, ErrInvalidInput
	}
	capabilities, err := e.Capabilities(ctx, campaignID, userID)
	if err != nil {
		return false, err
	}
	return capabilities.Has(capability), nil
}

// RemoveCampaignMember deletes the user's role in the campaign. It is used both
// for leaving a campaign and for removal by an admin, so it does not check the
// rights of whoever asked for it. Removing the owner always fails with
// ErrOwnerRemovalForbidden, removing a non-member succeeds.
func (e *Evaluator) RemoveCampaignMember(ctx context.Context, campaignID, userID string) error {
	if campaignID == "" || userID == "" {
		return ErrInvalidInput
	}
	return e.store.Transaction(ctx, func(tx Store) error {
		ownerID, err := tx.FindOwnerID(ctx, campaignID)
		if err != nil {
			return err
		}
		if ownerID == userID {
			return ErrOwnerRemovalForbidden
		}
		return tx.DeleteRole(ctx, campaignID, userID)
	})
}

// SetMemberRole adds the user to the campaign or changes their role.
// The owner never gets a role row.
func (e *Evaluator) SetMemberRole(ctx context.Context, campaignID, userID string, role Role) error {
	if campaignID == "" || userID == "" || !role.Valid() {
		return ErrInvalidInput
	}
	return e.store.Transaction(ctx, func(tx Store) error {
		ownerID, err := tx.FindOwnerID(ctx, campaignID)
		if err != nil {
			return err
		}
		if ownerID == userID {
			return ErrOwnerRoleForbidden
		}
		return tx.UpsertRole(ctx, campaignID, userID, role)
	})
}

// JoinCampaign grants role to a user that is not yet part of the campaign.
// Owners and existing members are left untouched, joined reports whether a
// role was created.
func (e *Evaluator) JoinCampaign(ctx context.Context, campaignID, userID string, role Role) (joined bool, err error) {
	if campaignID == "" || userID == "" || !role.Valid() {
		return false, ErrInvalidInput
	}
	err = e.store.Transaction(ctx, func(tx Store) error {
		ownerID, err := tx.FindOwnerID(ctx, campaignID)
		if err != nil {
			return err
		}
		if ownerID == userID {
			return nil
		}
		_, err = tx.FindRole(ctx, campaignID, userID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		joined = true
		return tx.UpsertRole(ctx, campaignID, userID, role)
	})
	if err != nil {
		return false, err
	}
	return joined, nil
}
