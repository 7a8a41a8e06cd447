package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbfleet/fleet_account_manager/internal/apperrors"
	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	portsrepo "github.com/sbfleet/fleet_account_manager/internal/core/ports/repositories"
	portssvc "github.com/sbfleet/fleet_account_manager/internal/core/ports/services"
	"github.com/sbfleet/fleet_account_manager/internal/dto"
)

// accountServiceImpl implements the AccountSvcFacade interface.
type accountServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	now         func() time.Time
}

// NewAccountServiceImpl creates a new account service.
func NewAccountServiceImpl(repo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountServiceImpl{
		accountRepo: repo,
		now:         time.Now,
	}
}

// Ensure accountServiceImpl implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

// matchesSearch reports whether the account matches the free-text search.
// Matching is case-insensitive across business account ID, company name, and
// city; an empty search matches everything.
func matchesSearch(acc *domain.Account, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(acc.BusinessAccountID), needle) ||
		strings.Contains(strings.ToLower(acc.CompanyName), needle) ||
		strings.Contains(strings.ToLower(acc.City), needle)
}

func (s *accountServiceImpl) ListAccounts(ctx context.Context, filter domain.AccountFilter, search string) ([]domain.Account, error) {
	if !filter.Valid() {
		filter = domain.FilterAll
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("filter", string(filter)))
		return nil, err
	}

	// Status filtering happened at the repository; the text search is a
	// second, in-memory stage over the already-fetched set.
	filtered := make([]domain.Account, 0, len(accounts))
	for i := range accounts {
		if matchesSearch(&accounts[i], search) {
			filtered = append(filtered, accounts[i])
		}
	}

	s.LogDebug(ctx, "Accounts listed",
		slog.String("filter", string(filter)),
		slog.Int("fetched", len(accounts)),
		slog.Int("matched", len(filtered)))
	return filtered, nil
}

func (s *accountServiceImpl) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountServiceImpl) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if strings.TrimSpace(req.BusinessAccountID) == "" || strings.TrimSpace(req.CompanyName) == "" {
		return nil, apperrors.ErrValidation
	}

	accountType := req.AccountType
	if accountType == "" {
		accountType = domain.AccountTypeLocal
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	needsReview := false
	if req.NeedsReview != nil {
		needsReview = *req.NeedsReview
	}

	now := s.now()
	account := domain.Account{
		AccountID:         uuid.NewString(),
		BusinessAccountID: req.BusinessAccountID,
		CompanyName:       req.CompanyName,
		ContactName:       req.ContactName,
		ContactPhone:      req.ContactPhone,
		Address:           req.Address,
		City:              req.City,
		State:             req.State,
		ZipCode:           req.ZipCode,
		IsActive:          isActive,
		AccountType:       accountType,
		NeedsReview:       needsReview,
		ReviewNotes:       req.ReviewNotes,
		Source:            domain.SourceManualEntry,
		UpdatedAt:         now,
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("business_account_id", account.BusinessAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("business_account_id", account.BusinessAccountID))
	return &account, nil
}

func (s *accountServiceImpl) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		if strings.TrimSpace(*req.CompanyName) == "" {
			return nil, apperrors.ErrValidation
		}
		account.CompanyName = *req.CompanyName
	}
	if req.ContactName != nil {
		account.ContactName = *req.ContactName
	}
	if req.ContactPhone != nil {
		account.ContactPhone = *req.ContactPhone
	}
	if req.Address != nil {
		account.Address = *req.Address
	}
	if req.City != nil {
		account.City = *req.City
	}
	if req.State != nil {
		account.State = *req.State
	}
	if req.ZipCode != nil {
		account.ZipCode = *req.ZipCode
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.AccountType != nil {
		account.AccountType = *req.AccountType
	}
	if req.NeedsReview != nil {
		account.NeedsReview = *req.NeedsReview
	}
	if req.ReviewNotes != nil {
		account.ReviewNotes = *req.ReviewNotes
	}

	// Every edit refreshes updated_at, even when no field changed; source is
	// never written on update.
	account.UpdatedAt = s.now()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountServiceImpl) QuickSetActive(ctx context.Context, accountID string, isActive bool) (*domain.Account, error) {
	now := s.now()
	if err := s.accountRepo.QuickSetActive(ctx, accountID, isActive, now); err != nil {
		s.LogError(ctx, err, "Failed to quick-set account status",
			slog.String("account_id", accountID),
			slog.Bool("is_active", isActive))
		return nil, err
	}

	s.LogInfo(ctx, "Account status set",
		slog.String("account_id", accountID),
		slog.Bool("is_active", isActive))

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		// The write succeeded; a failed read-back still returns the error so
		// the client refetches.
		s.LogError(ctx, err, "Failed to reload account after status change", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}
