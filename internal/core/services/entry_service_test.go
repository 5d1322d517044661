package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/core/services"
	"github.com/homefin/ledger_backend/internal/dto"
	"github.com/homefin/ledger_backend/internal/utils/ledger"
)

type EntryServiceTestSuite struct {
	suite.Suite
	mockEntryRepo   *MockEntryRepository
	mockAccountSvc  *MockAccountService
	mockCurrencySvc *MockCurrencyService
	mockPublisher   *MockEntryEventPublisher
	service         portssvc.EntrySvcFacade

	familyID string
	userID   string
	account  *domain.Account
}

func (suite *EntryServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.mockPublisher = new(MockEntryEventPublisher)
	suite.service = services.NewEntryService(suite.mockEntryRepo, suite.mockAccountSvc, suite.mockCurrencySvc, suite.mockPublisher)

	suite.familyID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.account = &domain.Account{
		AccountID:      uuid.NewString(),
		FamilyID:       suite.familyID,
		Name:           "Checking",
		Classification: domain.Asset,
		Kind:           domain.KindDepository,
		CurrencyCode:   "USD",
		Status:         domain.AccountActive,
	}
}

func (suite *EntryServiceTestSuite) TestAppendEntry_Success() {
	ctx := context.Background()
	entryDate := time.Date(2025, 6, 10, 13, 45, 0, 0, time.UTC)
	req := dto.AppendEntryRequest{
		AccountID:    suite.account.AccountID,
		EntryDate:    entryDate,
		Amount:       decimal.NewFromInt(-42),
		CurrencyCode: "USD",
		Kind:         domain.KindTransaction,
		Memo:         "groceries",
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.Entry")).Return(nil).Once()
	suite.mockPublisher.On("PublishEntryAppended", ctx, mock.AnythingOfType("services.EntryAppendedEvent")).Once()

	entry, err := suite.service.AppendEntry(ctx, suite.familyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.Equal(suite.account.AccountID, entry.AccountID)
	suite.True(entry.Amount.Equal(decimal.NewFromInt(-42)))
	// Entry dates are stored at UTC midnight.
	suite.Equal(ledger.NormalizeDate(entryDate), entry.EntryDate)
	suite.Equal(suite.userID, entry.CreatedBy)
	suite.Empty(entry.OriginalEntryID)

	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())

	event := suite.mockPublisher.Calls[0].Arguments.Get(1).(portssvc.EntryAppendedEvent)
	suite.Equal(suite.familyID, event.FamilyID)
	suite.Equal(entry.EntryID, event.EntryID)
}

func (suite *EntryServiceTestSuite) TestAppendEntry_FutureDatedRejected() {
	ctx := context.Background()
	req := dto.AppendEntryRequest{
		AccountID:    suite.account.AccountID,
		EntryDate:    time.Now().AddDate(0, 0, 2),
		Amount:       decimal.NewFromInt(10),
		CurrencyCode: "USD",
		Kind:         domain.KindTransaction,
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, suite.account.AccountID).Return(suite.account, nil).Once()

	entry, err := suite.service.AppendEntry(ctx, suite.familyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrInvalidEntry)
	suite.ErrorContains(err, services.ErrFutureDatedEntry.Error())
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
	suite.mockPublisher.AssertNotCalled(suite.T(), "PublishEntryAppended", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestAppendEntry_ZeroAmountTransactionRejected() {
	ctx := context.Background()
	req := dto.AppendEntryRequest{
		AccountID:    suite.account.AccountID,
		EntryDate:    time.Now().AddDate(0, 0, -1),
		Amount:       decimal.Zero,
		CurrencyCode: "USD",
		Kind:         domain.KindTransaction,
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, suite.account.AccountID).Return(suite.account, nil).Once()

	entry, err := suite.service.AppendEntry(ctx, suite.familyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrInvalidEntry)
	suite.ErrorContains(err, services.ErrZeroAmount.Error())
}

func (suite *EntryServiceTestSuite) TestAppendEntry_ZeroAmountValuationAllowed() {
	ctx := context.Background()
	req := dto.AppendEntryRequest{
		AccountID:    suite.account.AccountID,
		EntryDate:    time.Now().AddDate(0, 0, -1),
		Amount:       decimal.Zero,
		CurrencyCode: "USD",
		Kind:         domain.KindValuation,
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.Entry")).Return(nil).Once()
	suite.mockPublisher.On("PublishEntryAppended", ctx, mock.AnythingOfType("services.EntryAppendedEvent")).Once()

	entry, err := suite.service.AppendEntry(ctx, suite.familyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.KindValuation, entry.Kind)
}

func (suite *EntryServiceTestSuite) TestAppendEntry_DisabledAccountRejected() {
	ctx := context.Background()
	disabled := *suite.account
	disabled.Status = domain.AccountDisabled
	req := dto.AppendEntryRequest{
		AccountID:    disabled.AccountID,
		EntryDate:    time.Now().AddDate(0, 0, -1),
		Amount:       decimal.NewFromInt(10),
		CurrencyCode: "USD",
		Kind:         domain.KindTransaction,
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, disabled.AccountID).Return(&disabled, nil).Once()

	entry, err := suite.service.AppendEntry(ctx, suite.familyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrInvalidEntry)
	suite.ErrorContains(err, services.ErrAccountNotWritable.Error())
}

func (suite *EntryServiceTestSuite) TestAppendEntry_UnknownCurrencyRejected() {
	ctx := context.Background()
	req := dto.AppendEntryRequest{
		AccountID:    suite.account.AccountID,
		EntryDate:    time.Now().AddDate(0, 0, -1),
		Amount:       decimal.NewFromInt(10),
		CurrencyCode: "XXX",
		Kind:         domain.KindTransaction,
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.AppendEntry(ctx, suite.familyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrInvalidEntry)
}

func (suite *EntryServiceTestSuite) TestAppendEntry_AccountOutsideFamilyNotFound() {
	ctx := context.Background()
	req := dto.AppendEntryRequest{
		AccountID:    suite.account.AccountID,
		EntryDate:    time.Now().AddDate(0, 0, -1),
		Amount:       decimal.NewFromInt(10),
		CurrencyCode: "USD",
		Kind:         domain.KindTransaction,
	}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, suite.account.AccountID).Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.AppendEntry(ctx, suite.familyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *EntryServiceTestSuite) TestVoidEntry_Success() {
	ctx := context.Background()
	entryDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	original := &domain.Entry{
		EntryID:      uuid.NewString(),
		AccountID:    suite.account.AccountID,
		EntryDate:    entryDate,
		Amount:       decimal.NewFromInt(-75),
		CurrencyCode: "USD",
		Kind:         domain.KindTransaction,
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockEntryRepo.On("FindCompensatingEntry", ctx, original.EntryID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.Entry")).Return(nil).Once()
	suite.mockPublisher.On("PublishEntryAppended", ctx, mock.AnythingOfType("services.EntryAppendedEvent")).Once()

	compensating, err := suite.service.VoidEntry(ctx, suite.familyID, original.EntryID, "duplicate charge", suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(compensating)
	suite.NotEqual(original.EntryID, compensating.EntryID)
	suite.Equal(original.EntryID, compensating.OriginalEntryID)
	// The compensating entry negates the original on the original's date so
	// daily flows cancel exactly from that date forward.
	suite.True(compensating.Amount.Equal(decimal.NewFromInt(75)))
	suite.Equal(original.EntryDate, compensating.EntryDate)
	suite.Equal("duplicate charge", compensating.Memo)
}

func (suite *EntryServiceTestSuite) TestVoidEntry_AlreadyVoidedRejected() {
	ctx := context.Background()
	original := &domain.Entry{
		EntryID:      uuid.NewString(),
		AccountID:    suite.account.AccountID,
		EntryDate:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.NewFromInt(-75),
		CurrencyCode: "USD",
		Kind:         domain.KindTransaction,
	}
	existing := &domain.Entry{
		EntryID:         uuid.NewString(),
		OriginalEntryID: original.EntryID,
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockEntryRepo.On("FindCompensatingEntry", ctx, original.EntryID).Return(existing, nil).Once()

	compensating, err := suite.service.VoidEntry(ctx, suite.familyID, original.EntryID, "again", suite.userID)

	suite.Require().Error(err)
	suite.Nil(compensating)
	suite.ErrorIs(err, apperrors.ErrInvalidEntry)
	suite.ErrorContains(err, services.ErrAlreadyVoided.Error())
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestVoidEntry_CompensatingEntryRejected() {
	ctx := context.Background()
	compensating := &domain.Entry{
		EntryID:         uuid.NewString(),
		AccountID:       suite.account.AccountID,
		EntryDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(75),
		CurrencyCode:    "USD",
		Kind:            domain.KindTransaction,
		OriginalEntryID: uuid.NewString(),
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, compensating.EntryID).Return(compensating, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, suite.account.AccountID).Return(suite.account, nil).Once()

	result, err := suite.service.VoidEntry(ctx, suite.familyID, compensating.EntryID, "undo the undo", suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInvalidEntry)
	suite.ErrorContains(err, services.ErrVoidCompensating.Error())
}

func (suite *EntryServiceTestSuite) TestGetEntryByID_ScopedToFamily() {
	ctx := context.Background()
	entry := &domain.Entry{
		EntryID:   uuid.NewString(),
		AccountID: suite.account.AccountID,
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	// The owning account is outside the caller's family.
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, suite.account.AccountID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.GetEntryByID(ctx, suite.familyID, entry.EntryID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *EntryServiceTestSuite) TestListEntriesPaginated_Success() {
	ctx := context.Background()
	entries := []domain.Entry{
		{EntryID: uuid.NewString(), AccountID: suite.account.AccountID, Amount: decimal.NewFromInt(10)},
		{EntryID: uuid.NewString(), AccountID: suite.account.AccountID, Amount: decimal.NewFromInt(-5)},
	}
	nextToken := "dG9rZW4="
	params := dto.ListEntriesParams{Limit: 2}

	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.familyID, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockEntryRepo.On("ListEntriesByAccountPaginated", ctx, suite.account.AccountID, 2, (*string)(nil)).Return(entries, &nextToken, nil).Once()

	page, err := suite.service.ListEntriesPaginated(ctx, suite.familyID, suite.account.AccountID, params)

	suite.Require().NoError(err)
	suite.Require().NotNil(page)
	suite.Len(page.Entries, 2)
	suite.Require().NotNil(page.NextToken)
	suite.Equal(nextToken, *page.NextToken)
}

func TestEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntryServiceTestSuite))
}
