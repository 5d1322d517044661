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
)

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo    *MockExchangeRateRepository
	mockCurrencySvc *MockCurrencyService
	service         portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo, suite.mockCurrencySvc)
}

func (suite *ExchangeRateServiceTestSuite) TestUpsertExchangeRate_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.UpsertExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.NewFromFloat(0.85),
		RateDate:         time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR"}, nil).Once()
	suite.mockRateRepo.On("UpsertRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil).Once()

	rate, err := suite.service.UpsertExchangeRate(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(rate)
	suite.NotEmpty(rate.ExchangeRateID)
	suite.Equal("USD", rate.FromCurrencyCode)
	suite.Equal("EUR", rate.ToCurrencyCode)
	suite.True(rate.Rate.Equal(decimal.NewFromFloat(0.85)))
	// Rate dates are stored at UTC midnight like entry dates.
	suite.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), rate.RateDate)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestUpsertExchangeRate_NonPositiveRateRejected() {
	ctx := context.Background()
	req := dto.UpsertExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.Zero,
		RateDate:         time.Now(),
	}

	rate, err := suite.service.UpsertExchangeRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "UpsertRate", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestUpsertExchangeRate_SameCurrencyRejected() {
	ctx := context.Background()
	req := dto.UpsertExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "USD",
		Rate:             decimal.NewFromInt(1),
		RateDate:         time.Now(),
	}

	rate, err := suite.service.UpsertExchangeRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestUpsertExchangeRate_UnknownCurrencyRejected() {
	ctx := context.Background()
	req := dto.UpsertExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "ZZZ",
		Rate:             decimal.NewFromInt(2),
		RateDate:         time.Now(),
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "ZZZ").Return(nil, apperrors.ErrNotFound).Once()

	rate, err := suite.service.UpsertExchangeRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_Success() {
	ctx := context.Background()
	rateDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cached := &domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.NewFromFloat(0.85),
		RateDate:         rateDate,
	}

	suite.mockRateRepo.On("FindRateByDate", ctx, "USD", "EUR", rateDate).Return(cached, nil).Once()

	rate, err := suite.service.GetExchangeRate(ctx, "usd", "eur", rateDate.Add(6*time.Hour))

	suite.Require().NoError(err)
	suite.Equal(cached, rate)
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_BadCodesRejected() {
	ctx := context.Background()

	rate, err := suite.service.GetExchangeRate(ctx, "US", "EURO", time.Now())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindRateByDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
