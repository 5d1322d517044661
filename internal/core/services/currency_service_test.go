package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portssvc "github.com/homefin/ledger_backend/internal/core/ports/services"
	"github.com/homefin/ledger_backend/internal/core/services"
	"github.com/homefin/ledger_backend/internal/dto"
)

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockCurrencyRepo)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Success() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{
		CurrencyCode: "usd",
		Symbol:       "$",
		Name:         "US Dollar",
	}

	suite.mockCurrencyRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(currency)
	// Codes are stored uppercase regardless of request casing.
	suite.Equal("USD", currency.CurrencyCode)
	suite.Equal("$", currency.Symbol)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_BadCodeRejected() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{
		CurrencyCode: "DOLLARS",
		Symbol:       "$",
		Name:         "US Dollar",
	}

	currency, err := suite.service.CreateCurrency(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCurrencyRepo.AssertNotCalled(suite.T(), "SaveCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_NotFound() {
	ctx := context.Background()

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "ZZZ").Return(nil, apperrors.ErrNotFound).Once()

	currency, err := suite.service.GetCurrencyByCode(ctx, "zzz")

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_Success() {
	ctx := context.Background()
	registered := []domain.Currency{
		{CurrencyCode: "USD"},
		{CurrencyCode: "EUR"},
	}

	suite.mockCurrencyRepo.On("ListCurrencies", ctx).Return(registered, nil).Once()

	currencies, err := suite.service.ListCurrencies(ctx)

	suite.Require().NoError(err)
	suite.Equal(registered, currencies)
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
