package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Seizuree/atm-system/internal/atm/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxIface is the slice of pgxpool.Pool the repository needs. It is
// satisfied by both the real pool and pgxmock.
type PgxIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresAccountRepository struct {
	db PgxIface
}

func NewPostgresAccountRepository(db PgxIface) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `id, username, pin_hash, balance, debt, daily_withdrawn, failed_attempts, locked, history, created_at, updated_at`

func (r *PostgresAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE username = $1
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, username)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}

	return account, nil
}

// Save upserts the full account snapshot. The insertion sequence is
// assigned once on first insert and never touched afterwards, which
// keeps ListAll's order stable across updates.
func (r *PostgresAccountRepository) Save(ctx context.Context, account *domain.Account) error {
	history, err := json.Marshal(account.History)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO accounts (id, username, pin_hash, balance, debt, daily_withdrawn, failed_attempts, locked, history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (username)
		DO UPDATE SET
			pin_hash = EXCLUDED.pin_hash,
			balance = EXCLUDED.balance,
			debt = EXCLUDED.debt,
			daily_withdrawn = EXCLUDED.daily_withdrawn,
			failed_attempts = EXCLUDED.failed_attempts,
			locked = EXCLUDED.locked,
			history = EXCLUDED.history,
			updated_at = now()
	`, account.ID, account.Username, account.PINHash, account.Balance, account.Debt,
		account.DailyWithdrawn, account.FailedAttempts, account.Locked, history, account.CreatedAt)

	return err
}

func (r *PostgresAccountRepository) ListAll(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY seq;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func (r *PostgresAccountRepository) Clear(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM accounts`)
	return err
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var history []byte

	err := row.Scan(&account.ID, &account.Username, &account.PINHash, &account.Balance,
		&account.Debt, &account.DailyWithdrawn, &account.FailedAttempts, &account.Locked,
		&history, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(history) > 0 {
		if err := json.Unmarshal(history, &account.History); err != nil {
			return nil, fmt.Errorf("failed to decode history: %w", err)
		}
	}

	return &account, nil
}
