package repositories

import (
	"context"
	"time"

	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
)

// AccountReader defines read operations for fleet account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts returns accounts matching the status filter, ordered by
	// total_sales descending.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)

	// ListForDashboard returns the {is_active, needs_review, total_sales}
	// projection of every account, for aggregation only (no ordering).
	ListForDashboard(ctx context.Context) ([]domain.AccountStatsRow, error)

	// ListReviewAlerts returns accounts flagged needs_review, most recently
	// updated first, capped at limit.
	ListReviewAlerts(ctx context.Context, limit int) ([]domain.Account, error)
}

// AccountWriter defines write operations for fleet account data. There is no
// delete: accounts are only ever toggled inactive.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount replaces the mutable fields of an existing account.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// QuickSetActive sets is_active, clears needs_review, and refreshes
	// updated_at in a single statement.
	QuickSetActive(ctx context.Context, accountID string, isActive bool, now time.Time) error
}

// AccountRepository combines all account repository operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
