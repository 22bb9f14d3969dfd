package service

//go:generate mockgen -destination=../../mocks/mock_account_repository.go -package=mocks github.com/Seizuree/atm-system/internal/atm/domain AccountRepository

import (
	"context"
	"fmt"

	"github.com/Seizuree/atm-system/internal/atm/domain"
	atmerror "github.com/Seizuree/atm-system/internal/errors"
)

// AccountService owns registration and the deposit/withdraw paths,
// including debt settlement on deposit. Every mutation is written
// through to the repository immediately.
type AccountService struct {
	repo  domain.AccountRepository
	guard domain.PinGuard
}

func NewAccountService(repo domain.AccountRepository, guard domain.PinGuard) *AccountService {
	return &AccountService{repo: repo, guard: guard}
}

func (s *AccountService) Register(ctx context.Context, username, pin string) (*domain.Account, error) {
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, atmerror.ErrAccountExists
	}

	account, err := domain.NewAccount(username, pin, s.guard)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Deposit credits the account, settling outstanding debt first. When
// the account owes money, up to the deposited amount goes to the
// creditor: the store is scanned in insertion order and the first
// account the depositor's history says it owes receives the whole
// payment. Only one creditor is ever repaid per deposit. The
// depositor's own "Debt paid" entry is appended after the scan so it
// cannot influence the derivation it feeds into.
func (s *AccountService) Deposit(ctx context.Context, account *domain.Account, amount int64) error {
	if amount <= 0 {
		return atmerror.ErrInvalidAmount
	}

	if account.Debt > 0 {
		payment := min(account.Debt, amount)
		account.Debt -= payment
		amount -= payment

		all, err := s.repo.ListAll(ctx)
		if err != nil {
			return err
		}
		for _, creditor := range all {
			if account.HasDebtTo(creditor.Username) {
				creditor.Balance += payment
				creditor.LogTransaction(fmt.Sprintf("Debt paid by %s: +$%d", account.Username, payment))
				if err := s.repo.Save(ctx, creditor); err != nil {
					return err
				}
				break
			}
		}

		account.LogTransaction(fmt.Sprintf("Debt paid: -$%d", payment))
	}

	if amount > 0 {
		account.Balance += amount
		account.LogTransaction(fmt.Sprintf("Deposit: +$%d", amount))
	}

	return s.repo.Save(ctx, account)
}

func (s *AccountService) Withdraw(ctx context.Context, account *domain.Account, amount int64) error {
	if err := account.Withdraw(amount); err != nil {
		return err
	}
	return s.repo.Save(ctx, account)
}
