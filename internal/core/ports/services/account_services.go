package services

import (
	"context"

	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	"github.com/sbfleet/fleet_account_manager/internal/dto"
)

// AccountSvcFacade exposes the fleet account lifecycle: list with composed
// filtering, create, partial update, and the one-click status toggle.
type AccountSvcFacade interface {
	// ListAccounts applies the status filter at the repository and the
	// free-text search in memory, preserving total_sales descending order.
	ListAccounts(ctx context.Context, filter domain.AccountFilter, search string) ([]domain.Account, error)

	// GetAccountByID retrieves one account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// CreateAccount inserts a new account, stamping source and updated_at.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount applies the provided fields and forces a fresh updated_at.
	// It never touches source or business_account_id.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// QuickSetActive sets is_active and clears needs_review in one round trip.
	// No-op target validation happens at the repository (unknown id -> ErrNotFound).
	QuickSetActive(ctx context.Context, accountID string, isActive bool) (*domain.Account, error)
}

// DashboardSvcFacade derives the aggregate stats and review alerts.
type DashboardSvcFacade interface {
	// GetSummary fetches the stats projection and the top-5 review alerts
	// concurrently. A failed section degrades to zero/empty rather than
	// erroring the whole dashboard.
	GetSummary(ctx context.Context) (domain.DashboardSummary, []domain.Account, error)
}

// ExportSvcFacade renders the account list as a spreadsheet.
type ExportSvcFacade interface {
	// ExportAccounts builds an XLSX workbook of the filtered account list and
	// returns its serialized bytes.
	ExportAccounts(ctx context.Context, filter domain.AccountFilter, search string) ([]byte, error)
}
