package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/promoflow/campaign_settings/internal/core/domain"
	"github.com/promoflow/campaign_settings/internal/core/schema"
	"github.com/promoflow/campaign_settings/internal/core/services"
)

// --- Mock RateProvider ---
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) RateOn(ctx context.Context, currencyCode string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, currencyCode, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite ---
type MulticurrencySyncerTestSuite struct {
	suite.Suite
	mockRates *MockRateProvider
	syncer    *services.MulticurrencySyncer
	schema    schema.EntitySchema
	date      time.Time
}

func (suite *MulticurrencySyncerTestSuite) SetupTest() {
	suite.mockRates = new(MockRateProvider)
	suite.syncer = services.NewMulticurrencySyncer(suite.mockRates)
	sch, err := schema.ForEntityType(domain.EntityAdGroup)
	suite.Require().NoError(err)
	suite.schema = sch
	suite.date = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *MulticurrencySyncerTestSuite) TestCanonicalMultipliesByRate() {
	ctx := context.Background()
	rate := decimal.RequireFromString("0.9")
	suite.mockRates.On("RateOn", ctx, "EUR", suite.date).Return(rate, nil).Once()

	pair, err := suite.syncer.Sync(ctx, suite.schema, "cpc_cc", decimal.RequireFromString("0.5"), "EUR", suite.date)

	suite.Require().NoError(err)
	suite.Require().NotNil(pair)
	suite.Equal("local_cpc_cc", pair.Field)
	suite.True(pair.Value.Equal(decimal.RequireFromString("0.45")), "got %s", pair.Value)
	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *MulticurrencySyncerTestSuite) TestLocalDividesByRate() {
	ctx := context.Background()
	rate := decimal.RequireFromString("0.9")
	suite.mockRates.On("RateOn", ctx, "EUR", suite.date).Return(rate, nil).Once()

	pair, err := suite.syncer.Sync(ctx, suite.schema, "local_cpc_cc", decimal.RequireFromString("0.45"), "EUR", suite.date)

	suite.Require().NoError(err)
	suite.Require().NotNil(pair)
	suite.Equal("cpc_cc", pair.Field)
	suite.True(pair.Value.Equal(decimal.RequireFromString("0.5")), "got %s", pair.Value)
}

func (suite *MulticurrencySyncerTestSuite) TestRoundTripStaysWithinTolerance() {
	ctx := context.Background()
	rate := decimal.RequireFromString("0.8547")
	suite.mockRates.On("RateOn", ctx, "EUR", suite.date).Return(rate, nil)

	original := decimal.RequireFromString("1.37")
	forward, err := suite.syncer.Sync(ctx, suite.schema, "cpc_cc", original, "EUR", suite.date)
	suite.Require().NoError(err)
	back, err := suite.syncer.Sync(ctx, suite.schema, "local_cpc_cc", forward.Value, "EUR", suite.date)
	suite.Require().NoError(err)

	tolerance := decimal.RequireFromString("0.00005")
	suite.True(back.Value.Sub(original).Abs().LessThanOrEqual(tolerance),
		"round trip drifted: %s -> %s -> %s", original, forward.Value, back.Value)
}

func (suite *MulticurrencySyncerTestSuite) TestZeroSkipsConversion() {
	ctx := context.Background()

	pair, err := suite.syncer.Sync(ctx, suite.schema, "cpc_cc", decimal.Zero, "EUR", suite.date)

	suite.Require().NoError(err)
	suite.Nil(pair)
	suite.mockRates.AssertNotCalled(suite.T(), "RateOn", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MulticurrencySyncerTestSuite) TestNilSkipsConversion() {
	ctx := context.Background()

	pair, err := suite.syncer.Sync(ctx, suite.schema, "daily_budget", nil, "EUR", suite.date)

	suite.Require().NoError(err)
	suite.Nil(pair)
}

func (suite *MulticurrencySyncerTestSuite) TestUnpairedFieldIsIgnored() {
	ctx := context.Background()

	pair, err := suite.syncer.Sync(ctx, suite.schema, "tracking_code", "utm=1", "EUR", suite.date)

	suite.Require().NoError(err)
	suite.Nil(pair)
	suite.mockRates.AssertNotCalled(suite.T(), "RateOn", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MulticurrencySyncerTestSuite) TestNonPositiveRateFails() {
	ctx := context.Background()
	suite.mockRates.On("RateOn", ctx, "EUR", suite.date).Return(decimal.Zero, nil).Once()

	pair, err := suite.syncer.Sync(ctx, suite.schema, "cpc_cc", decimal.RequireFromString("0.5"), "EUR", suite.date)

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.Contains(err.Error(), "not positive")
}

func (suite *MulticurrencySyncerTestSuite) TestResultRoundedToFourPlaces() {
	ctx := context.Background()
	rate := decimal.RequireFromString("0.333333")
	suite.mockRates.On("RateOn", ctx, "EUR", suite.date).Return(rate, nil).Once()

	pair, err := suite.syncer.Sync(ctx, suite.schema, "cpc_cc", decimal.RequireFromString("1"), "EUR", suite.date)

	suite.Require().NoError(err)
	suite.True(pair.Value.Equal(decimal.RequireFromString("0.3333")), "got %s", pair.Value)
}

// --- Run Suite ---
func TestMulticurrencySyncer(t *testing.T) {
	suite.Run(t, new(MulticurrencySyncerTestSuite))
}
