package dto

import (
	"time"

	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new fleet account.
// BusinessAccountID and CompanyName are the only required fields; everything
// else carries the form defaults.
type CreateAccountRequest struct {
	BusinessAccountID string             `json:"businessAccountID" binding:"required"`
	CompanyName       string             `json:"companyName" binding:"required"`
	ContactName       string             `json:"contactName"`
	ContactPhone      string             `json:"contactPhone"`
	Address           string             `json:"address"`
	City              string             `json:"city"`
	State             string             `json:"state"`
	ZipCode           string             `json:"zipCode"`
	IsActive          *bool              `json:"isActive"` // defaults to true when omitted
	AccountType       domain.AccountType `json:"accountType" binding:"omitempty,fleet_account_type"`
	NeedsReview       *bool              `json:"needsReview"` // defaults to false when omitted
	ReviewNotes       string             `json:"reviewNotes"`
}

// UpdateAccountRequest defines the fields allowed when editing an account.
// Pointers distinguish "not provided" from zero values. BusinessAccountID and
// Source are immutable and deliberately absent.
type UpdateAccountRequest struct {
	CompanyName  *string             `json:"companyName"`
	ContactName  *string             `json:"contactName"`
	ContactPhone *string             `json:"contactPhone"`
	Address      *string             `json:"address"`
	City         *string             `json:"city"`
	State        *string             `json:"state"`
	ZipCode      *string             `json:"zipCode"`
	IsActive     *bool               `json:"isActive"`
	AccountType  *domain.AccountType `json:"accountType" binding:"omitempty,fleet_account_type"`
	NeedsReview  *bool               `json:"needsReview"`
	ReviewNotes  *string             `json:"reviewNotes"`
}

// QuickStatusRequest is the one-click active/inactive toggle. It also clears
// the needs-review flag server side.
type QuickStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Filter string `form:"filter,default=all" binding:"omitempty,oneof=all active inactive needs_review"`
	Search string `form:"search"`
}

// AccountResponse mirrors domain.Account on the wire.
type AccountResponse struct {
	AccountID         string             `json:"accountID"`
	BusinessAccountID string             `json:"businessAccountID"`
	CompanyName       string             `json:"companyName"`
	ContactName       string             `json:"contactName"`
	ContactPhone      string             `json:"contactPhone"`
	Address           string             `json:"address"`
	City              string             `json:"city"`
	State             string             `json:"state"`
	ZipCode           string             `json:"zipCode"`
	IsActive          bool               `json:"isActive"`
	AccountType       domain.AccountType `json:"accountType"`
	NeedsReview       bool               `json:"needsReview"`
	ReviewNotes       string             `json:"reviewNotes"`
	TotalSales        decimal.Decimal    `json:"totalSales"`
	LastInvoiceDate   *time.Time         `json:"lastInvoiceDate"`
	Source            string             `json:"source"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:         acc.AccountID,
		BusinessAccountID: acc.BusinessAccountID,
		CompanyName:       acc.CompanyName,
		ContactName:       acc.ContactName,
		ContactPhone:      acc.ContactPhone,
		Address:           acc.Address,
		City:              acc.City,
		State:             acc.State,
		ZipCode:           acc.ZipCode,
		IsActive:          acc.IsActive,
		AccountType:       acc.AccountType,
		NeedsReview:       acc.NeedsReview,
		ReviewNotes:       acc.ReviewNotes,
		TotalSales:        acc.TotalSales,
		LastInvoiceDate:   acc.LastInvoiceDate,
		Source:            acc.Source,
		UpdatedAt:         acc.UpdatedAt,
	}
}

// ToListAccountsResponse converts a slice of domain accounts to the wire shape.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}
