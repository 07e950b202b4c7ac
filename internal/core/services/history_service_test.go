package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/promoflow/campaign_settings/internal/core/domain"
	"github.com/promoflow/campaign_settings/internal/core/schema"
	"github.com/promoflow/campaign_settings/internal/core/services"
)

// --- Mock HistoryRepository ---
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) ListHistoryByEntity(ctx context.Context, entityID string, limit int) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, entityID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) ListHistoryByAccount(ctx context.Context, accountID string, limit int) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

// --- ChangeRenderer ---

func adGroupTestSchema(t *testing.T) schema.EntitySchema {
	t.Helper()
	sch, err := schema.ForEntityType(domain.EntityAdGroup)
	require.NoError(t, err)
	return sch
}

func TestRenderFirstValueHasNoFromClause(t *testing.T) {
	sch := adGroupTestSchema(t)
	renderer := services.NewChangeRenderer(nil)

	text := renderer.Render(sch, "$", domain.FieldValues{}, domain.ChangeSet{
		"cpc_cc": decimal.RequireFromString("0.5"),
	})

	require.Equal(t, "CPC set to $0.500", text)
}

func TestRenderChangedValueShowsOldAndNew(t *testing.T) {
	sch := adGroupTestSchema(t)
	renderer := services.NewChangeRenderer(nil)

	text := renderer.Render(sch,
		"$",
		domain.FieldValues{"cpc_cc": decimal.RequireFromString("0.5")},
		domain.ChangeSet{"cpc_cc": decimal.RequireFromString("0.6")},
	)

	require.Equal(t, "CPC set from $0.500 to $0.600", text)
}

func TestRenderFollowsSchemaDeclarationOrder(t *testing.T) {
	sch := adGroupTestSchema(t)
	renderer := services.NewChangeRenderer(nil)

	// state is declared before daily_budget, which is declared before
	// target_regions; map iteration order must not leak into the text.
	text := renderer.Render(sch, "€", domain.FieldValues{}, domain.ChangeSet{
		"target_regions": []string{"US", "GB"},
		"state":          "ACTIVE",
		"daily_budget":   decimal.RequireFromString("25"),
	})

	require.Equal(t, "State set to Enabled, Daily budget set to €25.00, Locations set to US, GB", text)
}

func TestRenderEnumUsesLabels(t *testing.T) {
	sch := adGroupTestSchema(t)
	renderer := services.NewChangeRenderer(nil)

	text := renderer.Render(sch,
		"$",
		domain.FieldValues{"state": "ACTIVE"},
		domain.ChangeSet{"state": "INACTIVE"},
	)

	require.Equal(t, "State set from Enabled to Paused", text)
}

func TestRenderRefFieldResolvesDisplayName(t *testing.T) {
	sch, err := schema.ForEntityType(domain.EntityCampaign)
	require.NoError(t, err)
	renderer := services.NewChangeRenderer(func(field, id string) string {
		if id == "u-1" {
			return "Jane Smith"
		}
		return ""
	})

	text := renderer.Render(sch, "$", domain.FieldValues{}, domain.ChangeSet{
		"campaign_manager": "u-1",
	})

	require.Equal(t, "Campaign Manager set to Jane Smith", text)
}

// --- History service ---

type HistoryServiceTestSuite struct {
	suite.Suite
	mockHistoryRepo *MockHistoryRepository
}

func (suite *HistoryServiceTestSuite) SetupTest() {
	suite.mockHistoryRepo = new(MockHistoryRepository)
}

func (suite *HistoryServiceTestSuite) TestListEntityHistory() {
	ctx := context.Background()
	entries := []domain.HistoryEntry{
		{HistoryID: "h-2", EntityID: "e-1", ActionType: domain.ActionSettingsChange, ChangesText: "CPC set from $0.500 to $0.600"},
		{HistoryID: "h-1", EntityID: "e-1", ActionType: domain.ActionCreate, ChangesText: "CPC set to $0.500"},
	}
	suite.mockHistoryRepo.On("ListHistoryByEntity", ctx, "e-1", 50).Return(entries, nil).Once()

	service := services.NewHistoryService(suite.mockHistoryRepo)
	got, err := service.ListEntityHistory(ctx, "e-1", 50)

	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Equal("h-2", got[0].HistoryID)
	suite.Equal("CPC set from $0.500 to $0.600", got[0].ChangesText)
	suite.Equal(domain.ActionCreate, got[1].ActionType)
	suite.mockHistoryRepo.AssertExpectations(suite.T())
}

func (suite *HistoryServiceTestSuite) TestListAccountHistory() {
	ctx := context.Background()
	accountID := "a-1"
	entries := []domain.HistoryEntry{
		{HistoryID: "h-1", EntityID: "e-1", AccountID: &accountID},
	}
	suite.mockHistoryRepo.On("ListHistoryByAccount", ctx, accountID, 0).Return(entries, nil).Once()

	service := services.NewHistoryService(suite.mockHistoryRepo)
	got, err := service.ListAccountHistory(ctx, accountID, 0)

	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal("h-1", got[0].HistoryID)
}

func TestHistoryService(t *testing.T) {
	suite.Run(t, new(HistoryServiceTestSuite))
}
