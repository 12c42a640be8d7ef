package access

import "context"

// Store is the persistence boundary for campaign roles and ownership.
type Store interface {
	// FindRole returns ErrNotFound when the user has no role in the campaign.
	FindRole(ctx context.Context, campaignID, userID string) (Role, error)
	// UpsertRole replaces any existing role of the user in the campaign.
	UpsertRole(ctx context.Context, campaignID, userID string, role Role) error
	// DeleteRole succeeds when there is nothing to delete.
	DeleteRole(ctx context.Context, campaignID, userID string) error
	// FindOwnerID returns ErrNotFound for unknown campaigns. Inside a
	// transaction the campaign row stays locked until the transaction ends.
	FindOwnerID(ctx context.Context, campaignID string) (string, error)
	// Transaction runs fn atomically: if fn returns an error nothing it did
	// through tx is kept.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
