package pgsql

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoflow/campaign_settings/internal/apperrors"
	"github.com/promoflow/campaign_settings/internal/core/domain"
)

// commitFixture wires a PgxSettingsRepository over a mock pool together with a
// representative record/entry pair for one ad-group revision.
type commitFixture struct {
	pool   pgxmock.PgxPoolIface
	repo   *PgxSettingsRepository
	record domain.SettingsRecord
	entry  domain.HistoryEntry
	userID string
}

func newCommitFixture(t *testing.T) commitFixture {
	t.Helper()

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	userID := "u-1"
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := domain.SettingsRecord{
		SettingsID: "s-2",
		EntityID:   "e-1",
		EntityType: domain.EntityAdGroup,
		CreatedAt:  createdAt,
		CreatedBy:  &userID,
		SystemUser: domain.SystemUserNone,
		Fields: domain.FieldValues{
			"state":        "ACTIVE",
			"cpc_cc":       decimal.RequireFromString("0.6"),
			"local_cpc_cc": decimal.RequireFromString("0.54"),
		},
	}
	adGroupID := record.EntityID
	entry := domain.HistoryEntry{
		HistoryID:  "h-1",
		EntityID:   record.EntityID,
		EntityType: record.EntityType,
		AdGroupID:  &adGroupID,
		CreatedBy:  &userID,
		SystemUser: domain.SystemUserNone,
		ActionType: domain.ActionSettingsChange,
		Changes: domain.ChangeSet{
			"cpc_cc":       decimal.RequireFromString("0.6"),
			"local_cpc_cc": decimal.RequireFromString("0.54"),
		},
		ChangesText: "CPC set from €0.500 to €0.600, Local CPC set from €0.450 to €0.540",
		CreatedAt:   createdAt,
	}

	return commitFixture{
		pool:   pool,
		repo:   &PgxSettingsRepository{BaseRepository: BaseRepository{Pool: pool}},
		record: record,
		entry:  entry,
		userID: userID,
	}
}

func TestCommitRevisionAppendsMovesPointerAndLogsHistory(t *testing.T) {
	f := newCommitFixture(t)
	expectedLatestID := "s-1"

	f.pool.ExpectBegin()
	f.pool.ExpectExec("INSERT INTO settings_records").
		WithArgs(
			f.record.SettingsID,
			f.record.EntityID,
			f.record.EntityType,
			f.record.CreatedAt,
			f.record.CreatedBy,
			string(f.record.SystemUser),
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.pool.ExpectExec("UPDATE entities").
		WithArgs(
			f.record.EntityID,
			f.record.SettingsID,
			f.record.CreatedAt,
			f.userID,
			&expectedLatestID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.pool.ExpectExec("INSERT INTO settings_history").
		WithArgs(
			f.entry.HistoryID,
			f.entry.EntityID,
			f.entry.EntityType,
			f.entry.AccountID,
			f.entry.CampaignID,
			f.entry.AdGroupID,
			f.entry.CreatedBy,
			string(f.entry.SystemUser),
			f.entry.ActionType,
			pgxmock.AnyArg(),
			f.entry.ChangesText,
			f.entry.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.pool.ExpectCommit()

	err := f.repo.CommitRevision(context.Background(), f.record, f.entry, &expectedLatestID)

	require.NoError(t, err)
	assert.NoError(t, f.pool.ExpectationsWereMet())
}

func TestCommitRevisionDuplicateAppendIsProgrammingError(t *testing.T) {
	f := newCommitFixture(t)
	expectedLatestID := "s-1"

	// ON CONFLICT DO NOTHING swallows the duplicate; zero affected rows is the
	// only signal that an already committed snapshot was re-persisted.
	f.pool.ExpectBegin()
	f.pool.ExpectExec("INSERT INTO settings_records").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	f.pool.ExpectRollback()

	err := f.repo.CommitRevision(context.Background(), f.record, f.entry, &expectedLatestID)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrProgramming)
	assert.NoError(t, f.pool.ExpectationsWereMet())
}

func TestCommitRevisionLostPointerRaceIsConcurrencyConflict(t *testing.T) {
	f := newCommitFixture(t)
	expectedLatestID := "s-1"

	// Another commit moved latest_settings_id between the caller's read and
	// this transaction; the compare-and-swap matches nothing.
	f.pool.ExpectBegin()
	f.pool.ExpectExec("INSERT INTO settings_records").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.pool.ExpectExec("UPDATE entities").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	f.pool.ExpectRollback()

	err := f.repo.CommitRevision(context.Background(), f.record, f.entry, &expectedLatestID)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
	assert.NoError(t, f.pool.ExpectationsWereMet())
}
