package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/homefin/ledger_backend/internal/core/domain"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/core/services"
)

type TransferServiceTestSuite struct {
	suite.Suite
	mockEntryRepo    *MockEntryRepository
	mockTransferRepo *MockTransferRepository
	mockFamilyRepo   *MockFamilyRepository
	mockNormalizer   *MockNormalizerService
	service          portssvc.TransferSvcFacade

	family *domain.Family
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockTransferRepo = new(MockTransferRepository)
	suite.mockFamilyRepo = new(MockFamilyRepository)
	suite.mockNormalizer = new(MockNormalizerService)
	suite.service = services.NewTransferService(suite.mockEntryRepo, suite.mockTransferRepo, suite.mockFamilyRepo, suite.mockNormalizer, services.TransferMatchConfig{
		WindowDays: 4,
		Epsilon:    decimal.RequireFromString("0.01"),
	})

	suite.family = &domain.Family{
		FamilyID:         uuid.NewString(),
		Name:             "Smith",
		BaseCurrencyCode: "USD",
	}
}

// expectScan wires the common read expectations for one MatchTransfers call.
func (suite *TransferServiceTestSuite) expectScan(ctx context.Context, from, to time.Time, entries []domain.Entry, claimed map[string]struct{}) {
	scanFrom := from.AddDate(0, 0, -4)
	scanTo := to.AddDate(0, 0, 4)
	suite.mockFamilyRepo.On("FindFamilyByID", ctx, suite.family.FamilyID).Return(suite.family, nil).Once()
	suite.mockEntryRepo.On("ListEntriesByFamily", ctx, suite.family.FamilyID, scanFrom, scanTo).Return(entries, nil).Once()
	suite.mockTransferRepo.On("FindClaimedEntryIDs", ctx, suite.family.FamilyID).Return(claimed, nil).Once()
}

func (suite *TransferServiceTestSuite) expectPassthroughNormalize(ctx context.Context, entries []domain.Entry) {
	for _, e := range entries {
		suite.mockNormalizer.On("Normalize", ctx, e.Amount, e.CurrencyCode, "USD", e.EntryDate).Return(e.Amount, nil).Once()
	}
}

func txEntry(accountID string, entryDate time.Time, amount decimal.Decimal) domain.Entry {
	return domain.Entry{
		EntryID:      uuid.NewString(),
		AccountID:    accountID,
		EntryDate:    entryDate,
		Amount:       amount,
		CurrencyCode: "USD",
		Kind:         domain.KindTransaction,
	}
}

func (suite *TransferServiceTestSuite) TestMatchTransfers_PairsOppositeEntries() {
	ctx := context.Background()
	from := day(2025, 6, 1)
	to := day(2025, 6, 5)
	accountA := uuid.NewString()
	accountB := uuid.NewString()

	outflow := txEntry(accountA, day(2025, 6, 2), decimal.NewFromInt(-50))
	inflow := txEntry(accountB, day(2025, 6, 3), decimal.NewFromInt(50))
	entries := []domain.Entry{outflow, inflow}

	suite.expectScan(ctx, from, to, entries, map[string]struct{}{})
	suite.expectPassthroughNormalize(ctx, entries)
	suite.mockTransferRepo.On("SaveTransfers", ctx, mock.AnythingOfType("[]domain.Transfer")).Return(nil).Once()

	transfers, err := suite.service.MatchTransfers(ctx, suite.family.FamilyID, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(transfers, 1)
	suite.Equal(outflow.EntryID, transfers[0].OutflowEntryID)
	suite.Equal(inflow.EntryID, transfers[0].InflowEntryID)
	suite.Equal(suite.family.FamilyID, transfers[0].FamilyID)
	suite.mockTransferRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestMatchTransfers_SameAccountNeverPairs() {
	ctx := context.Background()
	from := day(2025, 6, 1)
	to := day(2025, 6, 5)
	accountA := uuid.NewString()

	entries := []domain.Entry{
		txEntry(accountA, day(2025, 6, 2), decimal.NewFromInt(-50)),
		txEntry(accountA, day(2025, 6, 2), decimal.NewFromInt(50)),
	}

	suite.expectScan(ctx, from, to, entries, map[string]struct{}{})
	suite.expectPassthroughNormalize(ctx, entries)

	transfers, err := suite.service.MatchTransfers(ctx, suite.family.FamilyID, from, to)

	suite.Require().NoError(err)
	suite.Empty(transfers)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "SaveTransfers", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestMatchTransfers_OutsideWindowNeverPairs() {
	ctx := context.Background()
	from := day(2025, 6, 1)
	to := day(2025, 6, 15)

	entries := []domain.Entry{
		txEntry(uuid.NewString(), day(2025, 6, 2), decimal.NewFromInt(-50)),
		// Five days apart with a four-day window.
		txEntry(uuid.NewString(), day(2025, 6, 7), decimal.NewFromInt(50)),
	}

	suite.expectScan(ctx, from, to, entries, map[string]struct{}{})
	suite.expectPassthroughNormalize(ctx, entries)

	transfers, err := suite.service.MatchTransfers(ctx, suite.family.FamilyID, from, to)

	suite.Require().NoError(err)
	suite.Empty(transfers)
}

func (suite *TransferServiceTestSuite) TestMatchTransfers_ClaimedEntriesSkipped() {
	ctx := context.Background()
	from := day(2025, 6, 1)
	to := day(2025, 6, 5)

	outflow := txEntry(uuid.NewString(), day(2025, 6, 2), decimal.NewFromInt(-50))
	inflow := txEntry(uuid.NewString(), day(2025, 6, 2), decimal.NewFromInt(50))
	entries := []domain.Entry{outflow, inflow}

	suite.expectScan(ctx, from, to, entries, map[string]struct{}{outflow.EntryID: {}})
	// Only the unclaimed side is normalized.
	suite.expectPassthroughNormalize(ctx, []domain.Entry{inflow})

	transfers, err := suite.service.MatchTransfers(ctx, suite.family.FamilyID, from, to)

	suite.Require().NoError(err)
	suite.Empty(transfers)
	suite.mockNormalizer.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestMatchTransfers_EpsilonAbsorbsRounding() {
	ctx := context.Background()
	from := day(2025, 6, 1)
	to := day(2025, 6, 5)

	outflow := txEntry(uuid.NewString(), day(2025, 6, 2), decimal.RequireFromString("-50.005"))
	inflow := txEntry(uuid.NewString(), day(2025, 6, 2), decimal.NewFromInt(50))
	entries := []domain.Entry{outflow, inflow}

	suite.expectScan(ctx, from, to, entries, map[string]struct{}{})
	suite.expectPassthroughNormalize(ctx, entries)
	suite.mockTransferRepo.On("SaveTransfers", ctx, mock.AnythingOfType("[]domain.Transfer")).Return(nil).Once()

	transfers, err := suite.service.MatchTransfers(ctx, suite.family.FamilyID, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(transfers, 1)
}

func (suite *TransferServiceTestSuite) TestMatchTransfers_ClosestDateWins() {
	ctx := context.Background()
	from := day(2025, 6, 1)
	to := day(2025, 6, 5)

	outflow := txEntry(uuid.NewString(), day(2025, 6, 2), decimal.NewFromInt(-50))
	sameDay := txEntry(uuid.NewString(), day(2025, 6, 2), decimal.NewFromInt(50))
	nextDay := txEntry(uuid.NewString(), day(2025, 6, 3), decimal.NewFromInt(50))
	entries := []domain.Entry{outflow, sameDay, nextDay}

	suite.expectScan(ctx, from, to, entries, map[string]struct{}{})
	suite.expectPassthroughNormalize(ctx, entries)
	suite.mockTransferRepo.On("SaveTransfers", ctx, mock.AnythingOfType("[]domain.Transfer")).Return(nil).Once()

	transfers, err := suite.service.MatchTransfers(ctx, suite.family.FamilyID, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(transfers, 1)
	// Each entry is claimed at most once; the same-day candidate ranks first.
	suite.Equal(sameDay.EntryID, transfers[0].InflowEntryID)
}

func (suite *TransferServiceTestSuite) TestMatchTransfers_CompensatingAndValuationExcluded() {
	ctx := context.Background()
	from := day(2025, 6, 1)
	to := day(2025, 6, 5)

	compensating := txEntry(uuid.NewString(), day(2025, 6, 2), decimal.NewFromInt(-50))
	compensating.OriginalEntryID = uuid.NewString()
	valuation := txEntry(uuid.NewString(), day(2025, 6, 2), decimal.NewFromInt(50))
	valuation.Kind = domain.KindValuation
	entries := []domain.Entry{compensating, valuation}

	suite.expectScan(ctx, from, to, entries, map[string]struct{}{})

	transfers, err := suite.service.MatchTransfers(ctx, suite.family.FamilyID, from, to)

	suite.Require().NoError(err)
	suite.Empty(transfers)
	// Neither entry participates, so neither is normalized.
	suite.mockNormalizer.AssertNotCalled(suite.T(), "Normalize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestMatchTransfers_VoidedOriginalExcluded() {
	ctx := context.Background()
	from := day(2025, 6, 1)
	to := day(2025, 6, 5)
	accountA := uuid.NewString()
	accountB := uuid.NewString()

	// A voided outflow and its compensating negation cancel to nothing;
	// the original must not claim the genuine inflow in the other account.
	voidedOutflow := txEntry(accountA, day(2025, 6, 2), decimal.NewFromInt(-50))
	compensating := txEntry(accountA, day(2025, 6, 2), decimal.NewFromInt(50))
	compensating.OriginalEntryID = voidedOutflow.EntryID
	realInflow := txEntry(accountB, day(2025, 6, 2), decimal.NewFromInt(50))
	entries := []domain.Entry{voidedOutflow, compensating, realInflow}

	suite.expectScan(ctx, from, to, entries, map[string]struct{}{})
	// Only the live entry is considered, so only it is normalized.
	suite.expectPassthroughNormalize(ctx, []domain.Entry{realInflow})

	transfers, err := suite.service.MatchTransfers(ctx, suite.family.FamilyID, from, to)

	suite.Require().NoError(err)
	suite.Empty(transfers)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "SaveTransfers", mock.Anything, mock.Anything)
	suite.mockNormalizer.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestListTransfers_Success() {
	ctx := context.Background()
	from := day(2025, 6, 1)
	to := day(2025, 6, 30)
	persisted := []domain.Transfer{
		{TransferID: uuid.NewString(), FamilyID: suite.family.FamilyID},
	}

	suite.mockTransferRepo.On("ListTransfersByFamily", ctx, suite.family.FamilyID, from, to).Return(persisted, nil).Once()

	transfers, err := suite.service.ListTransfers(ctx, suite.family.FamilyID, from, to)

	suite.Require().NoError(err)
	suite.Equal(persisted, transfers)
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
