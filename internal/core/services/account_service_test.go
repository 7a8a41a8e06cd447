package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sbfleet/fleet_account_manager/internal/apperrors"
	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	portssvc "github.com/sbfleet/fleet_account_manager/internal/core/ports/services"
	"github.com/sbfleet/fleet_account_manager/internal/core/services"
	"github.com/sbfleet/fleet_account_manager/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListForDashboard(ctx context.Context) ([]domain.AccountStatsRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountStatsRow), args.Error(1)
}

func (m *MockAccountRepository) ListReviewAlerts(ctx context.Context, limit int) ([]domain.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) QuickSetActive(ctx context.Context, accountID string, isActive bool, now time.Time) error {
	args := m.Called(ctx, accountID, isActive, now)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountServiceImpl(suite.mockRepo)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success_Defaults() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		BusinessAccountID: "BA-1001",
		CompanyName:       "Acme Trucking",
		City:              "Springfield",
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal("BA-1001", created.BusinessAccountID)
	suite.Equal("Acme Trucking", created.CompanyName)
	suite.Equal(domain.AccountTypeLocal, created.AccountType)
	suite.True(created.IsActive)
	suite.False(created.NeedsReview)
	suite.Equal(domain.SourceManualEntry, created.Source)
	suite.WithinDuration(time.Now(), created.UpdatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ExplicitFields() {
	ctx := context.Background()
	inactive := false
	review := true
	req := dto.CreateAccountRequest{
		BusinessAccountID: "BA-2002",
		CompanyName:       "Beta Hauling",
		AccountType:       domain.AccountTypeNationalAIN,
		IsActive:          &inactive,
		NeedsReview:       &review,
		ReviewNotes:       "Missing W-9",
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.AccountTypeNationalAIN, created.AccountType)
	suite.False(created.IsActive)
	suite.True(created.NeedsReview)
	suite.Equal("Missing W-9", created.ReviewNotes)
	suite.Equal(domain.SourceManualEntry, created.Source)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MissingRequiredFields() {
	ctx := context.Background()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{CompanyName: "No ID"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateAccount(ctx, dto.CreateAccountRequest{BusinessAccountID: "BA-3003", CompanyName: "   "})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateBusinessAccountID() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{BusinessAccountID: "BA-1001", CompanyName: "Acme Trucking"}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateAccount(ctx, req)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NeverTouchesSourceOrBusinessID() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:         accountID,
		BusinessAccountID: "BA-1001",
		CompanyName:       "Acme Trucking",
		IsActive:          true,
		AccountType:       domain.AccountTypeLocal,
		Source:            "POS Import",
		UpdatedAt:         time.Now().Add(-24 * time.Hour),
	}

	newName := "Acme Trucking LLC"
	req := dto.UpdateAccountRequest{CompanyName: &newName}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.CompanyName == "Acme Trucking LLC" &&
			acc.Source == "POS Import" &&
			acc.BusinessAccountID == "BA-1001"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, accountID, req)

	suite.Require().NoError(err)
	suite.Equal("Acme Trucking LLC", updated.CompanyName)
	suite.Equal("POS Import", updated.Source)
	suite.WithinDuration(time.Now(), updated.UpdatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_EmptyCompanyNameRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{AccountID: accountID, CompanyName: "Acme Trucking"}
	empty := ""

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{CompanyName: &empty})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount")
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestQuickSetActive_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	reloaded := &domain.Account{
		AccountID:   accountID,
		CompanyName: "Acme Trucking",
		IsActive:    false,
		NeedsReview: false,
	}

	suite.mockRepo.On("QuickSetActive", ctx, accountID, false, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(reloaded, nil).Once()

	account, err := suite.service.QuickSetActive(ctx, accountID, false)

	suite.Require().NoError(err)
	suite.False(account.IsActive)
	suite.False(account.NeedsReview)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestQuickSetActive_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("QuickSetActive", ctx, accountID, true, mock.AnythingOfType("time.Time")).Return(apperrors.ErrNotFound).Once()

	_, err := suite.service.QuickSetActive(ctx, accountID, true)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByID")
}

func (suite *AccountServiceTestSuite) TestListAccounts_SearchIsCaseInsensitive() {
	ctx := context.Background()
	accounts := []domain.Account{
		{BusinessAccountID: "BA-1001", CompanyName: "Acme Trucking", City: "Springfield", TotalSales: decimal.NewFromInt(900)},
		{BusinessAccountID: "BA-2002", CompanyName: "Beta Hauling", City: "Shelbyville", TotalSales: decimal.NewFromInt(500)},
		{BusinessAccountID: "BA-3003", CompanyName: "Gamma Freight", City: "Capital City", TotalSales: decimal.NewFromInt(100)},
	}

	suite.mockRepo.On("ListAccounts", ctx, domain.FilterAll).Return(accounts, nil).Times(3)

	// Matches company name regardless of case
	result, err := suite.service.ListAccounts(ctx, domain.FilterAll, "ACME")
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("Acme Trucking", result[0].CompanyName)

	// Matches city
	result, err = suite.service.ListAccounts(ctx, domain.FilterAll, "shelby")
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("Beta Hauling", result[0].CompanyName)

	// Matches business account ID
	result, err = suite.service.ListAccounts(ctx, domain.FilterAll, "ba-3003")
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("Gamma Freight", result[0].CompanyName)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_EmptySearchReturnsAll() {
	ctx := context.Background()
	accounts := []domain.Account{
		{CompanyName: "Acme Trucking"},
		{CompanyName: "Beta Hauling"},
	}

	suite.mockRepo.On("ListAccounts", ctx, domain.FilterActive).Return(accounts, nil).Once()

	result, err := suite.service.ListAccounts(ctx, domain.FilterActive, "")

	suite.Require().NoError(err)
	suite.Len(result, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_InvalidFilterFallsBackToAll() {
	ctx := context.Background()

	suite.mockRepo.On("ListAccounts", ctx, domain.FilterAll).Return([]domain.Account{}, nil).Once()

	_, err := suite.service.ListAccounts(ctx, domain.AccountFilter("bogus"), "")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_PreservesRepositoryOrder() {
	ctx := context.Background()
	accounts := []domain.Account{
		{CompanyName: "Top Seller", TotalSales: decimal.NewFromInt(1000)},
		{CompanyName: "Mid Seller", TotalSales: decimal.NewFromInt(500)},
		{CompanyName: "No Sales", TotalSales: decimal.Zero},
	}

	suite.mockRepo.On("ListAccounts", ctx, domain.FilterAll).Return(accounts, nil).Once()

	result, err := suite.service.ListAccounts(ctx, domain.FilterAll, "seller")

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal("Top Seller", result[0].CompanyName)
	suite.Equal("Mid Seller", result[1].CompanyName)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
