package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies how a fleet account is billed and serviced.
type AccountType string

const (
	AccountTypeLocal       AccountType = "LOCAL"
	AccountTypeCashFleet   AccountType = "CASH_FLEET"
	AccountTypeNationalAIN AccountType = "NATIONAL_AIN"
)

// Valid reports whether t is one of the recognized account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeLocal, AccountTypeCashFleet, AccountTypeNationalAIN:
		return true
	}
	return false
}

// SourceManualEntry is stamped on every account created through this
// application. Imported accounts carry the source of their import job.
const SourceManualEntry = "Manual Entry"

// AccountFilter selects a status subset when listing accounts.
type AccountFilter string

const (
	FilterAll         AccountFilter = "all"
	FilterActive      AccountFilter = "active"
	FilterInactive    AccountFilter = "inactive"
	FilterNeedsReview AccountFilter = "needs_review"
)

// Valid reports whether f is one of the recognized filter values.
func (f AccountFilter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterInactive, FilterNeedsReview:
		return true
	}
	return false
}

// Account is a single fleet customer record, the system's only domain entity.
// TotalSales and LastInvoiceDate are computed by the upstream POS import and
// are read-only here.
type Account struct {
	AccountID         string          `json:"accountID"`
	BusinessAccountID string          `json:"businessAccountID"` // external key, immutable after creation
	CompanyName       string          `json:"companyName"`
	ContactName       string          `json:"contactName"`
	ContactPhone      string          `json:"contactPhone"`
	Address           string          `json:"address"`
	City              string          `json:"city"`
	State             string          `json:"state"`
	ZipCode           string          `json:"zipCode"`
	IsActive          bool            `json:"isActive"`
	AccountType       AccountType     `json:"accountType"`
	NeedsReview       bool            `json:"needsReview"`
	ReviewNotes       string          `json:"reviewNotes"`
	TotalSales        decimal.Decimal `json:"totalSales"`
	LastInvoiceDate   *time.Time      `json:"lastInvoiceDate"`
	Source            string          `json:"source"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// AccountStatsRow is the projection used for dashboard aggregation.
type AccountStatsRow struct {
	IsActive    bool
	NeedsReview bool
	TotalSales  decimal.Decimal
}

// DashboardSummary holds the aggregate counts shown on the dashboard.
type DashboardSummary struct {
	Total       int             `json:"total"`
	Active      int             `json:"active"`
	Inactive    int             `json:"inactive"`
	NeedsReview int             `json:"needsReview"`
	TotalSales  decimal.Decimal `json:"totalSales"`
}
