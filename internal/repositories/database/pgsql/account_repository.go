package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sbfleet/fleet_account_manager/internal/apperrors"
	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	portsrepo "github.com/sbfleet/fleet_account_manager/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, business_account_id, company_name, contact_name, contact_phone,
		address, city, state, zip_code, is_active, account_type, needs_review, review_notes,
		COALESCE(total_sales, 0), last_invoice_date, source, updated_at`

// scanAccount scans one row in accountColumns order.
func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.BusinessAccountID,
		&acc.CompanyName,
		&acc.ContactName,
		&acc.ContactPhone,
		&acc.Address,
		&acc.City,
		&acc.State,
		&acc.ZipCode,
		&acc.IsActive,
		&acc.AccountType,
		&acc.NeedsReview,
		&acc.ReviewNotes,
		&acc.TotalSales,
		&acc.LastInvoiceDate,
		&acc.Source,
		&acc.UpdatedAt,
	)
	return acc, err
}

// SaveAccount inserts a new account. A unique violation on
// business_account_id maps to apperrors.ErrDuplicate.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO fleet_accounts (account_id, business_account_id, company_name, contact_name, contact_phone,
			address, city, state, zip_code, is_active, account_type, needs_review, review_notes, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`

	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.BusinessAccountID,
		account.CompanyName,
		account.ContactName,
		account.ContactPhone,
		account.Address,
		account.City,
		account.State,
		account.ZipCode,
		account.IsActive,
		account.AccountType,
		account.NeedsReview,
		account.ReviewNotes,
		account.Source,
		account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return fmt.Errorf("%w: account with business account ID %s already exists", apperrors.ErrDuplicate, account.BusinessAccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM fleet_accounts WHERE account_id = $1;`

	acc, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

// ListAccounts returns accounts matching the status filter, ordered by
// total_sales descending so the biggest customers surface first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM fleet_accounts`

	switch filter {
	case domain.FilterActive:
		query += ` WHERE is_active = TRUE`
	case domain.FilterInactive:
		query += ` WHERE is_active = FALSE`
	case domain.FilterNeedsReview:
		query += ` WHERE needs_review = TRUE`
	}
	query += ` ORDER BY total_sales DESC NULLS LAST;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts (filter %q): %w", filter, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// ListForDashboard returns the aggregation projection of every account.
func (r *PgxAccountRepository) ListForDashboard(ctx context.Context) ([]domain.AccountStatsRow, error) {
	query := `SELECT is_active, needs_review, COALESCE(total_sales, 0) FROM fleet_accounts;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard projection: %w", err)
	}
	defer rows.Close()

	var stats []domain.AccountStatsRow
	for rows.Next() {
		var row domain.AccountStatsRow
		if err := rows.Scan(&row.IsActive, &row.NeedsReview, &row.TotalSales); err != nil {
			return nil, fmt.Errorf("failed to scan dashboard row: %w", err)
		}
		stats = append(stats, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dashboard rows: %w", err)
	}
	return stats, nil
}

// ListReviewAlerts returns the most recently touched accounts flagged for
// review, capped at limit.
func (r *PgxAccountRepository) ListReviewAlerts(ctx context.Context, limit int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM fleet_accounts
		WHERE needs_review = TRUE
		ORDER BY updated_at DESC
		LIMIT $1;`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list review alerts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert rows: %w", err)
	}
	return accounts, nil
}

// UpdateAccount replaces the mutable fields of an existing account. Source,
// business_account_id, and the POS-computed columns are never written here.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE fleet_accounts
		SET company_name = $2, contact_name = $3, contact_phone = $4, address = $5,
			city = $6, state = $7, zip_code = $8, is_active = $9, account_type = $10,
			needs_review = $11, review_notes = $12, updated_at = $13
		WHERE account_id = $1;
	`

	tag, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.CompanyName,
		account.ContactName,
		account.ContactPhone,
		account.Address,
		account.City,
		account.State,
		account.ZipCode,
		account.IsActive,
		account.AccountType,
		account.NeedsReview,
		account.ReviewNotes,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// QuickSetActive flips is_active and clears needs_review in a single
// statement, keeping the quick-status action one round trip.
func (r *PgxAccountRepository) QuickSetActive(ctx context.Context, accountID string, isActive bool, now time.Time) error {
	query := `
		UPDATE fleet_accounts
		SET is_active = $2, needs_review = FALSE, updated_at = $3
		WHERE account_id = $1;
	`

	tag, err := r.pool.Exec(ctx, query, accountID, isActive, now)
	if err != nil {
		return fmt.Errorf("failed to set active status for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
