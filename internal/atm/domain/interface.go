package domain

import "context"

// AccountRepository is the ledger store: a durable username -> account
// snapshot mapping. GetByUsername returns (nil, nil) when the account
// is absent. ListAll must return accounts in a deterministic insertion
// order; the debt settlement scan repays only the first match it
// finds, so the order is observable. Clear exists for test resets.
type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	Save(ctx context.Context, account *Account) error
	ListAll(ctx context.Context) ([]*Account, error)
	Clear(ctx context.Context) error
}

// PinGuard hashes and verifies PINs. The rest of the system treats
// the hash as an opaque token.
type PinGuard interface {
	Hash(pin string) (string, error)
	Verify(pin, hash string) bool
}
