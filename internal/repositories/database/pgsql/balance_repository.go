package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxBalanceRepository implements the derived balance store using pgxpool.
type PgxBalanceRepository struct {
	BaseRepository
}

func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceRepositoryFacade {
	return &PgxBalanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

const balanceColumns = `balance_id, account_id, balance_date, amount, flows_factor, created_at, created_by, last_updated_at, last_updated_by`

func scanBalance(row pgx.Row) (*domain.Balance, error) {
	var b domain.Balance
	err := row.Scan(
		&b.BalanceID, &b.AccountID, &b.BalanceDate, &b.Amount, &b.FlowsFactor,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindBalanceBefore retrieves the most recent balance row strictly before the
// given date.
func (r *PgxBalanceRepository) FindBalanceBefore(ctx context.Context, accountID string, date time.Time) (*domain.Balance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE account_id = $1 AND balance_date < $2
		ORDER BY balance_date DESC
		LIMIT 1;
	`
	balance, err := scanBalance(r.Pool.QueryRow(ctx, query, accountID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no balance for account " + accountID + " before " + date.Format("2006-01-02"))
		}
		return nil, apperrors.NewAppError(500, "failed to find prior balance", err)
	}
	return balance, nil
}

// ListBalances retrieves balance rows for an account within the inclusive date
// range, ascending by date.
func (r *PgxBalanceRepository) ListBalances(ctx context.Context, accountID string, from, to time.Time) ([]domain.Balance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM balances
		WHERE account_id = $1 AND balance_date >= $2 AND balance_date <= $3
		ORDER BY balance_date;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list balances", err)
	}
	defer rows.Close()

	var balances []domain.Balance
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan balance row", err)
		}
		balances = append(balances, *balance)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating balance rows", err)
	}
	return balances, nil
}

// ReplaceBalances swaps every balance row for the account in the inclusive
// date range with the given rows inside one transaction. Either all rows land
// or the prior snapshots stay untouched.
func (r *PgxBalanceRepository) ReplaceBalances(ctx context.Context, accountID string, from, to time.Time, balances []domain.Balance) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	deleteQuery := `DELETE FROM balances WHERE account_id = $1 AND balance_date >= $2 AND balance_date <= $3;`
	if _, err := tx.Exec(ctx, deleteQuery, accountID, from, to); err != nil {
		return apperrors.NewAppError(500, "failed to clear balance range", err)
	}

	insertQuery := `
		INSERT INTO balances (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, b := range balances {
		batch.Queue(insertQuery,
			b.BalanceID, b.AccountID, b.BalanceDate, b.Amount, b.FlowsFactor,
			b.CreatedAt, b.CreatedBy, b.LastUpdatedAt, b.LastUpdatedBy,
		)
	}
	if batch.Len() > 0 {
		results := tx.SendBatch(ctx, batch)
		for range balances {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return apperrors.NewAppError(500, "failed to insert balance row", err)
			}
		}
		if err := results.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to flush balance batch", err)
		}
	}

	return r.Commit(ctx, tx)
}
