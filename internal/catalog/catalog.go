// Package catalog provides the read-only chart of accounts consulted by
// the import pipeline.
package catalog

import (
	"context"
	"fmt"

	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/store"
)

// Source lists every account in the chart of accounts.
type Source interface {
	ListAccounts(ctx context.Context) ([]*model.Account, error)
}

// StoreSource reads the local accounts table.
type StoreSource struct {
	repo store.AccountRepository
}

func NewStoreSource(repo store.AccountRepository) *StoreSource {
	return &StoreSource{repo: repo}
}

func (s *StoreSource) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	accounts, err := s.repo.GetAllAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Snapshot is an immutable, indexed copy of the chart of accounts. It is
// safe for concurrent use.
type Snapshot struct {
	accounts []*model.Account
	byID     map[string]*model.Account
	byName   map[string]*model.Account
}

// Load fetches the chart of accounts once and indexes it.
func Load(ctx context.Context, src Source) (*Snapshot, error) {
	accounts, err := src.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(accounts), nil
}

func NewSnapshot(accounts []*model.Account) *Snapshot {
	s := &Snapshot{
		accounts: make([]*model.Account, 0, len(accounts)),
		byID:     make(map[string]*model.Account, len(accounts)),
		byName:   make(map[string]*model.Account, len(accounts)),
	}
	for _, acc := range accounts {
		cp := *acc
		s.accounts = append(s.accounts, &cp)
		s.byID[cp.ID] = &cp
		if _, dup := s.byName[cp.Name]; !dup {
			s.byName[cp.Name] = &cp
		}
	}
	return s
}

// Accounts returns the accounts in catalog order. Callers must not modify
// the returned values.
func (s *Snapshot) Accounts() []*model.Account {
	return s.accounts
}

func (s *Snapshot) Len() int {
	return len(s.accounts)
}

func (s *Snapshot) ByID(id string) (*model.Account, bool) {
	acc, ok := s.byID[id]
	return acc, ok
}

func (s *Snapshot) ByName(name string) (*model.Account, bool) {
	acc, ok := s.byName[name]
	return acc, ok
}

// Resolve looks an account up by id first, then by exact name.
func (s *Snapshot) Resolve(idOrName string) (*model.Account, bool) {
	if acc, ok := s.ByID(idOrName); ok {
		return acc, true
	}
	return s.ByName(idOrName)
}

// NameOf returns the account name for id, or the id itself when the
// account is not in the catalog.
func (s *Snapshot) NameOf(id string) string {
	if acc, ok := s.ByID(id); ok {
		return acc.Name
	}
	return id
}
