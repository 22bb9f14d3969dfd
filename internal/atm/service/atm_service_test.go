package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Seizuree/atm-system/internal/atm/domain"
	"github.com/Seizuree/atm-system/internal/atm/dto"
	"github.com/Seizuree/atm-system/internal/atm/repository/jsonfile"
	"github.com/Seizuree/atm-system/internal/atm/service"
	atmerror "github.com/Seizuree/atm-system/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// atmFixture wires the engine against a real file-backed ledger so
// the full write-through and settlement behavior is exercised.
type atmFixture struct {
	atm    *service.ATMService
	store  *jsonfile.Store
	tokens *service.TokenService
}

func newATMFixture(t *testing.T) *atmFixture {
	t.Helper()

	store := jsonfile.NewStore(filepath.Join(t.TempDir(), "ledger.json"))
	guard := service.NewBcryptPinGuard(bcrypt.MinCost)
	tokens := service.NewTokenService("test-secret", 30)
	accounts := service.NewAccountService(store, guard)

	return &atmFixture{
		atm:    service.NewATMService(store, accounts, tokens),
		store:  store,
		tokens: tokens,
	}
}

func (f *atmFixture) register(t *testing.T, username, pin string) {
	t.Helper()
	_, err := f.atm.Register(context.Background(), dto.RegisterInput{Username: username, Pin: pin})
	require.NoError(t, err)
}

func (f *atmFixture) login(t *testing.T, username, pin string) (string, *dto.LoginOutput) {
	t.Helper()
	out, err := f.atm.Login(context.Background(), dto.LoginInput{Username: username, Pin: pin})
	require.NoError(t, err)

	claims, err := f.tokens.Verify(out.Token)
	require.NoError(t, err)

	return claims.SessionID, out
}

func (f *atmFixture) account(t *testing.T, username string) *domain.Account {
	t.Helper()
	account, err := f.store.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	require.NotNil(t, account)
	return account
}

func TestATMService_Register(t *testing.T) {
	f := newATMFixture(t)
	ctx := context.Background()

	out, err := f.atm.Register(ctx, dto.RegisterInput{Username: "alice", Pin: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "alice", out.Username)

	_, err = f.atm.Register(ctx, dto.RegisterInput{Username: "alice", Pin: "1234"})
	assert.ErrorIs(t, err, atmerror.ErrAccountExists)

	_, err = f.atm.Register(ctx, dto.RegisterInput{Username: "bob", Pin: "12345"})
	assert.ErrorIs(t, err, atmerror.ErrInvalidPin)
}

func TestATMService_Login(t *testing.T) {
	t.Run("unknown account", func(t *testing.T) {
		f := newATMFixture(t)
		_, err := f.atm.Login(context.Background(), dto.LoginInput{Username: "ghost", Pin: "1234"})
		assert.ErrorIs(t, err, atmerror.ErrAccountNotFound)
	})

	t.Run("wrong PIN is persisted", func(t *testing.T) {
		f := newATMFixture(t)
		f.register(t, "frank", "9999")

		_, err := f.atm.Login(context.Background(), dto.LoginInput{Username: "frank", Pin: "1111"})
		assert.ErrorIs(t, err, atmerror.ErrIncorrectPin)

		assert.Equal(t, 1, f.account(t, "frank").FailedAttempts)
	})

	t.Run("second login is rejected while one is active", func(t *testing.T) {
		f := newATMFixture(t)
		f.register(t, "david", "1234")
		f.register(t, "eve", "4321")

		f.login(t, "david", "1234")

		_, err := f.atm.Login(context.Background(), dto.LoginInput{Username: "eve", Pin: "4321"})
		assert.ErrorIs(t, err, atmerror.ErrSessionActive)
	})
}

func TestATMService_Login_LockoutAfterThreeFailures(t *testing.T) {
	f := newATMFixture(t)
	ctx := context.Background()
	f.register(t, "grace", "5555")

	_, err := f.atm.Login(ctx, dto.LoginInput{Username: "grace", Pin: "0000"})
	assert.ErrorIs(t, err, atmerror.ErrIncorrectPin)
	assert.Equal(t, 1, f.account(t, "grace").FailedAttempts)

	_, err = f.atm.Login(ctx, dto.LoginInput{Username: "grace", Pin: "1111"})
	assert.ErrorIs(t, err, atmerror.ErrIncorrectPin)
	assert.Equal(t, 2, f.account(t, "grace").FailedAttempts)

	// Third failure locks and raises from the same attempt.
	_, err = f.atm.Login(ctx, dto.LoginInput{Username: "grace", Pin: "2222"})
	assert.ErrorIs(t, err, atmerror.ErrAccountLocked)
	assert.True(t, f.account(t, "grace").Locked)

	// The right PIN no longer helps.
	_, err = f.atm.Login(ctx, dto.LoginInput{Username: "grace", Pin: "5555"})
	assert.ErrorIs(t, err, atmerror.ErrAccountLocked)
}

func TestATMService_RequiresActiveSession(t *testing.T) {
	f := newATMFixture(t)
	ctx := context.Background()

	_, err := f.atm.Deposit(ctx, "bogus-session", 100)
	assert.ErrorIs(t, err, atmerror.ErrNoActiveSession)

	_, err = f.atm.Withdraw(ctx, "bogus-session", 100)
	assert.ErrorIs(t, err, atmerror.ErrNoActiveSession)

	_, err = f.atm.Transfer(ctx, "bogus-session", dto.TransferInput{Target: "x", Amount: 1})
	assert.ErrorIs(t, err, atmerror.ErrNoActiveSession)

	_, err = f.atm.History(ctx, "bogus-session")
	assert.ErrorIs(t, err, atmerror.ErrNoActiveSession)

	_, err = f.atm.Balance(ctx, "bogus-session")
	assert.ErrorIs(t, err, atmerror.ErrNoActiveSession)

	err = f.atm.Logout(ctx, "bogus-session")
	assert.ErrorIs(t, err, atmerror.ErrNoActiveSession)
}

func TestATMService_Logout(t *testing.T) {
	f := newATMFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "1234")

	sessionID, _ := f.login(t, "alice", "1234")
	require.NoError(t, f.atm.Logout(ctx, sessionID))

	// The old session is gone for good.
	_, err := f.atm.Balance(ctx, sessionID)
	assert.ErrorIs(t, err, atmerror.ErrNoActiveSession)

	// And a fresh login works again.
	f.login(t, "alice", "1234")
}

func TestATMService_DepositWithdrawComposition(t *testing.T) {
	f := newATMFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "1234")
	sessionID, _ := f.login(t, "alice", "1234")

	out, err := f.atm.Deposit(ctx, sessionID, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), out.Balance)

	wout, err := f.atm.Withdraw(ctx, sessionID, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(300), wout.Balance)

	_, err = f.atm.Withdraw(ctx, sessionID, 1500)
	assert.ErrorIs(t, err, atmerror.ErrWithdrawalLimit)

	_, err = f.atm.Withdraw(ctx, sessionID, 400)
	assert.ErrorIs(t, err, atmerror.ErrInsufficientBalance)

	_, err = f.atm.Withdraw(ctx, sessionID, -5)
	assert.ErrorIs(t, err, atmerror.ErrInvalidAmount)

	_, err = f.atm.Deposit(ctx, sessionID, 0)
	assert.ErrorIs(t, err, atmerror.ErrInvalidAmount)
}

// The calibration scenario: a transfer beyond the balance sends what
// is there, books the shortfall as debt, and a later deposit repays
// the creditor automatically.
func TestATMService_DebtRoundTrip(t *testing.T) {
	f := newATMFixture(t)
	ctx := context.Background()

	f.register(t, "Rachel", "5555")
	f.register(t, "Steve", "4444")

	sessionID, _ := f.login(t, "Rachel", "5555")

	_, err := f.atm.Deposit(ctx, sessionID, 200)
	require.NoError(t, err)
	_, err = f.atm.Withdraw(ctx, sessionID, 100)
	require.NoError(t, err)

	out, err := f.atm.Transfer(ctx, sessionID, dto.TransferInput{Target: "Steve", Amount: 200})
	require.NoError(t, err)
	assert.Equal(t, int64(100), out.Transferred)
	assert.Equal(t, int64(100), out.DebtCreated)
	assert.Zero(t, out.Balance)
	assert.Equal(t, int64(100), out.Debt)

	rachel := f.account(t, "Rachel")
	assert.Zero(t, rachel.Balance)
	assert.Equal(t, int64(100), rachel.Debt)
	assert.True(t, rachel.HasDebtTo("Steve"))
	assert.Equal(t, int64(100), f.account(t, "Steve").Balance)

	// Steve sees the outstanding credit when he logs in.
	require.NoError(t, f.atm.Logout(ctx, sessionID))
	steveSession, loginOut := f.login(t, "Steve", "4444")
	require.Len(t, loginOut.Credits, 1)
	assert.Equal(t, dto.CreditEntry{Username: "Rachel", Amount: 100}, loginOut.Credits[0])
	require.NoError(t, f.atm.Logout(ctx, steveSession))

	// Rachel's next deposit settles the debt before crediting her.
	sessionID, _ = f.login(t, "Rachel", "5555")
	_, err = f.atm.Deposit(ctx, sessionID, 200)
	require.NoError(t, err)

	rachel = f.account(t, "Rachel")
	assert.Zero(t, rachel.Debt)
	assert.Equal(t, int64(100), rachel.Balance)
	assert.False(t, rachel.HasDebtTo("Steve"))
	assert.Equal(t, int64(200), f.account(t, "Steve").Balance)

	bal, err := f.atm.Balance(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), bal.Balance)
	assert.Zero(t, bal.Debt)
}

func TestATMService_Transfer_FullyCovered(t *testing.T) {
	f := newATMFixture(t)
	ctx := context.Background()

	f.register(t, "nina", "1234")
	f.register(t, "oliver", "5678")

	sessionID, _ := f.login(t, "nina", "1234")
	_, err := f.atm.Deposit(ctx, sessionID, 1000)
	require.NoError(t, err)

	out, err := f.atm.Transfer(ctx, sessionID, dto.TransferInput{Target: "oliver", Amount: 300})
	require.NoError(t, err)
	assert.Equal(t, int64(300), out.Transferred)
	assert.Equal(t, int64(700), out.Balance)
	assert.Zero(t, out.Debt)

	nina := f.account(t, "nina")
	assert.Equal(t, int64(700), nina.Balance)
	// The covered path goes through withdraw, so the counter moves.
	assert.Equal(t, int64(300), nina.DailyWithdrawn)
	assert.Equal(t, int64(300), f.account(t, "oliver").Balance)
}

// A fully covered transfer rides the withdrawal path and hits its
// per-call cap; the shortfall path does not.
func TestATMService_Transfer_CapOnlyOnCoveredPath(t *testing.T) {
	f := newATMFixture(t)
	ctx := context.Background()

	f.register(t, "nina", "1234")
	f.register(t, "oliver", "5678")

	sessionID, _ := f.login(t, "nina", "1234")
	_, err := f.atm.Deposit(ctx, sessionID, 1000)
	require.NoError(t, err)
	_, err = f.atm.Deposit(ctx, sessionID, 1000)
	require.NoError(t, err)

	_, err = f.atm.Transfer(ctx, sessionID, dto.TransferInput{Target: "oliver", Amount: 1500})
	assert.ErrorIs(t, err, atmerror.ErrWithdrawalLimit)
	assert.Equal(t, int64(2000), f.account(t, "nina").Balance)

	// 2500 exceeds the balance, so the debt path takes over and the
	// cap no longer applies.
	out, err := f.atm.Transfer(ctx, sessionID, dto.TransferInput{Target: "oliver", Amount: 2500})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), out.Transferred)
	assert.Equal(t, int64(500), out.DebtCreated)
	assert.Equal(t, int64(2000), f.account(t, "oliver").Balance)
}

func TestATMService_Transfer_CreatesMissingTarget(t *testing.T) {
	f := newATMFixture(t)
	ctx := context.Background()

	f.register(t, "alice", "1234")
	sessionID, _ := f.login(t, "alice", "1234")
	_, err := f.atm.Deposit(ctx, sessionID, 500)
	require.NoError(t, err)

	t.Run("malformed PIN aborts before any movement", func(t *testing.T) {
		_, err := f.atm.Transfer(ctx, sessionID, dto.TransferInput{
			Target: "newcomer", Amount: 100, NewAccountPin: "12ab",
		})
		assert.ErrorIs(t, err, atmerror.ErrInvalidPin)
		assert.Equal(t, int64(500), f.account(t, "alice").Balance)

		missing, err2 := f.store.GetByUsername(ctx, "newcomer")
		require.NoError(t, err2)
		assert.Nil(t, missing)
	})

	t.Run("valid PIN creates the target inline", func(t *testing.T) {
		out, err := f.atm.Transfer(ctx, sessionID, dto.TransferInput{
			Target: "newcomer", Amount: 100, NewAccountPin: "7777",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(100), out.Transferred)

		assert.Equal(t, int64(100), f.account(t, "newcomer").Balance)
		assert.Equal(t, int64(400), f.account(t, "alice").Balance)
	})
}

func TestATMService_History(t *testing.T) {
	f := newATMFixture(t)
	ctx := context.Background()

	f.register(t, "alice", "1234")
	sessionID, _ := f.login(t, "alice", "1234")

	_, err := f.atm.Deposit(ctx, sessionID, 200)
	require.NoError(t, err)
	_, err = f.atm.Withdraw(ctx, sessionID, 50)
	require.NoError(t, err)

	lines, err := f.atm.History(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - Deposit: \+\$200$`, lines[0])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - Withdraw: -\$50$`, lines[1])
}
