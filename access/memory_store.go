package access

import (
	"context"
	"maps"
	"sync"
)

type memberKey struct {
	campaignID string
	userID     string
}

// MemoryStore keeps campaigns and roles in memory
type MemoryStore struct {
	mu     sync.Mutex
	owners map[string]string
	roles  map[memberKey]Role
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		owners: make(map[string]string),
		roles:  make(map[memberKey]Role),
	}
}

// SetOwner creates the campaign or changes its owner
func (s *MemoryStore) SetOwner(campaignID, ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[campaignID] = ownerID
}

func (s *MemoryStore) FindRole(ctx context.Context, campaignID, userID string) (Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memoryTx)(s).FindRole(ctx, campaignID, userID)
}

func (s *MemoryStore) UpsertRole(ctx context.Context, campaignID, userID string, role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memoryTx)(s).UpsertRole(ctx, campaignID, userID, role)
}

func (s *MemoryStore) DeleteRole(ctx context.Context, campaignID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memoryTx)(s).DeleteRole(ctx, campaignID, userID)
}

func (s *MemoryStore) FindOwnerID(ctx context.Context, campaignID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memoryTx)(s).FindOwnerID(ctx, campaignID)
}

// Transaction holds the store lock while fn runs and restores the previous
// roles when fn fails.
func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	roles := maps.Clone(s.roles)
	owners := maps.Clone(s.owners)
	if err := fn((*memoryTx)(s)); err != nil {
		s.roles = roles
		s.owners = owners
		return err
	}
	return nil
}

// memoryTx is the store seen from inside a transaction, the lock is already held
type memoryTx MemoryStore

func (tx *memoryTx) FindRole(ctx context.Context, campaignID, userID string) (Role, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	role, ok := tx.roles[memberKey{campaignID, userID}]
	if !ok {
		return "", ErrNotFound
	}
	return role, nil
}

func (tx *memoryTx) UpsertRole(ctx context.Context, campaignID, userID string, role Role) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := tx.owners[campaignID]; !ok {
		return ErrNotFound
	}
	tx.roles[memberKey{campaignID, userID}] = role
	return nil
}

func (tx *memoryTx) DeleteRole(ctx context.Context, campaignID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(tx.roles, memberKey{campaignID, userID})
	return nil
}

func (tx *memoryTx) FindOwnerID(ctx context.Context, campaignID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	owner, ok := tx.owners[campaignID]
	if !ok {
		return "", ErrNotFound
	}
	return owner, nil
}

// Transaction flattens nested transactions into the outer one
func (tx *memoryTx) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return fn(tx)
}
