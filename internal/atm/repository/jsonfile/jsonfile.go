// Package jsonfile persists the ledger as a single JSON snapshot
// file. Writes go to a temp file first and are renamed into place, so
// a crash mid-write never corrupts the ledger. Accounts keep their
// insertion order, which the debt settlement scan depends on.
package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/Seizuree/atm-system/internal/atm/domain"
)

type snapshot struct {
	Accounts []*domain.Account `json:"accounts"`
}

type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, account := range snap.Accounts {
		if account.Username == username {
			return account, nil
		}
	}

	return nil, nil
}

func (s *Store) Save(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}

	account.UpdatedAt = time.Now()

	replaced := false
	for i, existing := range snap.Accounts {
		if existing.Username == account.Username {
			snap.Accounts[i] = account
			replaced = true
			break
		}
	}
	if !replaced {
		snap.Accounts = append(snap.Accounts, account)
	}

	return s.save(snap)
}

func (s *Store) ListAll(_ context.Context) ([]*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return nil, err
	}

	return snap.Accounts, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(snapshot{})
}

// load reads and decodes the snapshot; a missing file is an empty
// ledger, not an error. Every call returns freshly decoded accounts,
// so callers never alias stored state.
func (s *Store) load() (snapshot, error) {
	var snap snapshot

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return snap, nil
		}
		return snap, err
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, err
	}

	return snap, nil
}

func (s *Store) save(snap snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
