package domain

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"time"

	atmerror "github.com/Seizuree/atm-system/internal/errors"
	"github.com/Seizuree/atm-system/pkg/constant"
	"github.com/google/uuid"
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// Transaction is a single entry in an account's append-only history.
// Insertion order is the authoritative audit order.
type Transaction struct {
	Time   time.Time `json:"time"`
	Detail string    `json:"detail"`
}

// Account holds the full ledger state of one customer. Amounts are
// int64 minor units. Debt is owed to exactly one implicit creditor at
// a time; the creditor is never stored directly but derived from the
// transaction history (see HasDebtTo).
type Account struct {
	ID             string        `json:"id"`
	Username       string        `json:"username"`
	PINHash        string        `json:"pin_hash"`
	Balance        int64         `json:"balance"`
	Debt           int64         `json:"debt"`
	DailyWithdrawn int64         `json:"daily_withdrawn"`
	FailedAttempts int           `json:"failed_attempts"`
	Locked         bool          `json:"locked"`
	History        []Transaction `json:"history"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewAccount validates the PIN, hashes it through the guard and
// returns a zeroed account.
func NewAccount(username, pin string, guard PinGuard) (*Account, error) {
	if !pinPattern.MatchString(pin) {
		return nil, atmerror.ErrInvalidPin
	}

	hash, err := guard.Hash(pin)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	return &Account{
		ID:        uuid.NewString(),
		Username:  username,
		PINHash:   hash,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// VerifyPIN checks the PIN against the stored hash. A match resets
// FailedAttempts and returns true. A mismatch increments
// FailedAttempts and returns false without an error, except the third
// consecutive failure, which locks the account and returns
// ErrAccountLocked from the same call. Callers must persist the
// account after every call, success or failure, since both branches
// mutate state.
func (a *Account) VerifyPIN(pin string, guard PinGuard) (bool, error) {
	if a.Locked {
		return false, atmerror.ErrAccountLocked
	}

	if guard.Verify(pin, a.PINHash) {
		a.FailedAttempts = 0
		return true, nil
	}

	a.FailedAttempts++
	if a.FailedAttempts >= constant.MaxFailedAttempts {
		a.Locked = true
		return false, atmerror.ErrAccountLocked
	}

	return false, nil
}

// Withdraw debits the balance. The limit is a fixed per-call cap;
// DailyWithdrawn only tracks the running total and never gates
// anything.
func (a *Account) Withdraw(amount int64) error {
	if amount > constant.WithdrawalLimit {
		return atmerror.ErrWithdrawalLimit
	}
	if a.Balance < amount {
		return atmerror.ErrInsufficientBalance
	}

	a.Balance -= amount
	a.DailyWithdrawn += amount
	a.LogTransaction(fmt.Sprintf("Withdraw: -$%d", amount))

	return nil
}

// LogTransaction appends a timestamped entry to the history.
func (a *Account) LogTransaction(detail string) {
	a.History = append(a.History, Transaction{Time: time.Now(), Detail: detail})
}

// HasDebtTo reports whether this account still owes the named user,
// derived purely from the transaction history: the sum of
// "Debt created to <user>: $N" entries minus the sum of all
// "Debt paid: -$N" entries. The paid entries are not filtered by
// creditor, so any debt payment reduces the tally checked against any
// creditor name. That asymmetry is load-bearing: the settlement scan
// in the deposit path relies on it to stop matching once a debt is
// repaid.
func (a *Account) HasDebtTo(user string) bool {
	var created, paid int64

	marker := "Debt created to " + user + ":"
	for _, t := range a.History {
		if strings.Contains(t.Detail, marker) {
			created += amountAfter(t.Detail, ": $")
		}
		if strings.Contains(t.Detail, "Debt paid:") {
			paid += amountAfter(t.Detail, ": -$")
		}
	}

	return created > paid
}

// FormattedHistory returns a restartable sequence of
// "YYYY-MM-DD HH:MM:SS - <detail>" lines in insertion order.
func (a *Account) FormattedHistory() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, t := range a.History {
			if !yield(t.Time.Format("2006-01-02 15:04:05") + " - " + t.Detail) {
				return
			}
		}
	}
}

func amountAfter(detail, sep string) int64 {
	_, rest, ok := strings.Cut(detail, sep)
	if !ok {
		return 0
	}

	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0
	}

	return n
}
