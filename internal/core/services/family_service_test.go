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

type FamilyServiceTestSuite struct {
	suite.Suite
	mockFamilyRepo  *MockFamilyRepository
	mockCurrencySvc *MockCurrencyService
	service         portssvc.FamilySvcFacade
}

func (suite *FamilyServiceTestSuite) SetupTest() {
	suite.mockFamilyRepo = new(MockFamilyRepository)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.service = services.NewFamilyService(suite.mockFamilyRepo, suite.mockCurrencySvc)
}

func (suite *FamilyServiceTestSuite) TestCreateFamily_Success() {
	ctx := context.Background()
	req := dto.CreateFamilyRequest{
		Name:             "Smith",
		BaseCurrencyCode: "USD",
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockFamilyRepo.On("SaveFamily", ctx, mock.AnythingOfType("domain.Family")).Return(nil).Once()

	family, err := suite.service.CreateFamily(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(family)
	suite.NotEmpty(family.FamilyID)
	suite.Equal("USD", family.BaseCurrencyCode)
}

func (suite *FamilyServiceTestSuite) TestCreateFamily_UnknownBaseCurrencyRejected() {
	ctx := context.Background()
	req := dto.CreateFamilyRequest{
		Name:             "Smith",
		BaseCurrencyCode: "ZZZ",
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "ZZZ").Return(nil, apperrors.ErrNotFound).Once()

	family, err := suite.service.CreateFamily(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(family)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFamilyRepo.AssertNotCalled(suite.T(), "SaveFamily", mock.Anything, mock.Anything)
}

func (suite *FamilyServiceTestSuite) TestDeleteFamily_Success() {
	ctx := context.Background()
	familyID := uuid.NewString()

	suite.mockFamilyRepo.On("DeleteFamily", ctx, familyID).Return(nil).Once()

	err := suite.service.DeleteFamily(ctx, familyID)

	suite.Require().NoError(err)
	suite.mockFamilyRepo.AssertExpectations(suite.T())
}

func TestFamilyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FamilyServiceTestSuite))
}
