package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Seizuree/atm-system/internal/atm/domain"
	"github.com/Seizuree/atm-system/internal/atm/dto"
	atmerror "github.com/Seizuree/atm-system/internal/errors"
	"github.com/google/uuid"
)

// ATMService is the session and transfer engine. It tracks at most
// one authenticated session at a time and serializes all operations
// behind a single mutex; the ledger itself has no transaction
// discipline beyond write-through saves, so nothing here may run
// concurrently against the store.
type ATMService struct {
	mu       sync.Mutex
	repo     domain.AccountRepository
	accounts *AccountService
	tokens   SessionTokenGenerator
	session  *domain.Session
}

func NewATMService(repo domain.AccountRepository, accounts *AccountService, tokens SessionTokenGenerator) *ATMService {
	return &ATMService{
		repo:     repo,
		accounts: accounts,
		tokens:   tokens,
	}
}

func (s *ATMService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.accounts.Register(ctx, input.Username, input.Pin)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterOutput{Username: account.Username}, nil
}

// Login authenticates the user and establishes the session. The
// account is persisted after PIN verification whatever the outcome,
// since failed attempts and lockout mutate it. On success the
// response carries the session token plus the credit list: every
// account that still owes this user money.
func (s *ATMService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		return nil, atmerror.ErrSessionActive
	}

	account, err := s.repo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, atmerror.ErrAccountNotFound
	}

	ok, verifyErr := account.VerifyPIN(input.Pin, s.accounts.guard)
	if err := s.repo.Save(ctx, account); err != nil {
		return nil, err
	}
	if verifyErr != nil {
		return nil, verifyErr
	}
	if !ok {
		return nil, atmerror.ErrIncorrectPin
	}

	session := &domain.Session{
		ID:       uuid.NewString(),
		Username: account.Username,
		LoginAt:  time.Now(),
	}

	token, expiresAt, err := s.tokens.Generate(session.ID, session.Username)
	if err != nil {
		return nil, err
	}

	s.session = session

	out := &dto.LoginOutput{
		Token:     token,
		ExpiresAt: expiresAt,
		Balance:   account.Balance,
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, debtor := range all {
		if debtor.Debt > 0 && debtor.HasDebtTo(account.Username) {
			out.Credits = append(out.Credits, dto.CreditEntry{
				Username: debtor.Username,
				Amount:   debtor.Debt,
			})
		}
	}

	return out, nil
}

func (s *ATMService) Deposit(ctx context.Context, sessionID string, amount int64) (*dto.TransactionOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Deposit(ctx, account, amount); err != nil {
		return nil, err
	}

	return &dto.TransactionOutput{Amount: amount, Balance: account.Balance}, nil
}

func (s *ATMService) Withdraw(ctx context.Context, sessionID string, amount int64) (*dto.TransactionOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if amount <= 0 {
		return nil, atmerror.ErrInvalidAmount
	}

	if err := s.accounts.Withdraw(ctx, account, amount); err != nil {
		return nil, err
	}

	return &dto.TransactionOutput{Amount: amount, Balance: account.Balance}, nil
}

// Transfer moves money to the target account, creating it first when
// it does not exist yet (phase one: resolve target, phase two:
// execute). A transfer fully covered by the balance goes through the
// normal withdrawal path, per-call cap included. A transfer exceeding
// the balance bypasses that cap: whatever balance remains is sent,
// the shortfall becomes debt to the target and the sender's balance
// drops to zero.
func (s *ATMService) Transfer(ctx context.Context, sessionID string, input dto.TransferInput) (*dto.TransferOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sender, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if input.Amount <= 0 {
		return nil, atmerror.ErrInvalidAmount
	}

	target, err := s.repo.GetByUsername(ctx, input.Target)
	if err != nil {
		return nil, err
	}
	if target == nil {
		target, err = s.accounts.Register(ctx, input.Target, input.NewAccountPin)
		if err != nil {
			return nil, err
		}
	}

	return s.processTransfer(ctx, sender, target, input.Amount)
}

func (s *ATMService) processTransfer(ctx context.Context, sender, target *domain.Account, amount int64) (*dto.TransferOutput, error) {
	out := &dto.TransferOutput{}

	if sender.Balance < amount {
		shortfall := amount - sender.Balance
		transferred := sender.Balance
		sender.Debt += shortfall

		if transferred > 0 {
			if err := s.accounts.Deposit(ctx, target, transferred); err != nil {
				return nil, err
			}
		}

		sender.Balance = 0
		sender.LogTransaction(fmt.Sprintf("Transfer to %s: -$%d", target.Username, transferred))
		sender.LogTransaction(fmt.Sprintf("Debt created to %s: $%d", target.Username, shortfall))

		out.Transferred = transferred
		out.DebtCreated = shortfall
	} else {
		if err := s.accounts.Withdraw(ctx, sender, amount); err != nil {
			return nil, err
		}
		if err := s.accounts.Deposit(ctx, target, amount); err != nil {
			return nil, err
		}
		sender.LogTransaction(fmt.Sprintf("Transfer to %s: -$%d", target.Username, amount))

		out.Transferred = amount
	}

	if err := s.repo.Save(ctx, sender); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, target); err != nil {
		return nil, err
	}

	out.Balance = sender.Balance
	out.Debt = sender.Debt

	return out, nil
}

func (s *ATMService) History(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return slices.Collect(account.FormattedHistory()), nil
}

func (s *ATMService) Balance(ctx context.Context, sessionID string) (*dto.BalanceOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &dto.BalanceOutput{Balance: account.Balance, Debt: account.Debt}, nil
}

func (s *ATMService) Logout(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireSession(ctx, sessionID); err != nil {
		return err
	}

	s.session = nil

	return nil
}

// requireSession checks that the caller's session is the live one and
// fetches a fresh copy of its account: the store is write-through, so
// rereading per operation keeps the engine free of stale state.
func (s *ATMService) requireSession(ctx context.Context, sessionID string) (*domain.Account, error) {
	if s.session == nil || s.session.ID != sessionID {
		return nil, atmerror.ErrNoActiveSession
	}

	account, err := s.repo.GetByUsername(ctx, s.session.Username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, atmerror.ErrAccountNotFound
	}

	return account, nil
}
