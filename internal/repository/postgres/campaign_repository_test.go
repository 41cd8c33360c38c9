package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samhanlabs/gmvboard/internal/domain"
)

func newMockRepo(t *testing.T) (*CampaignRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := Wrap(sqlx.NewDb(mockDB, "sqlmock"))
	return NewCampaignRepository(db), mock
}

func sampleRecord() *domain.CampaignRecord {
	return &domain.CampaignRecord{
		CampaignID:    42,
		CampaignGroup: "Samhan",
		CampaignName:  "[Samhan] Oct Live",
		ReportDate:    "2026-08-31",
		CampaignType:  domain.CampaignTypeLive,
		Cost:          1000.5,
		NetCost:       900,
		LiveViews:     1500,
		OrdersSKU:     25,
		GrossRevenue:  5000,
		ROI:           5,
		Currency:      "MYR",
		UploadedBy:    "ops@samhanlabs.com",
	}
}

func TestUpsertReportsInsertVsUpdate(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO campaign_records`).
		WithArgs(int64(42), "Samhan", "[Samhan] Oct Live", "2026-08-31", domain.CampaignTypeLive,
			1000.5, 900.0, int64(1500), int64(25), 5000.0, 5.0, "MYR", "ops@samhanlabs.com").
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO campaign_records`).
		WithArgs(int64(42), "Samhan", "[Samhan] Oct Live", "2026-08-31", domain.CampaignTypeLive,
			1000.5, 900.0, int64(1500), int64(25), 5000.0, 5.0, "MYR", "ops@samhanlabs.com").
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))
	mock.ExpectCommit()

	err := repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		inserted, err := repo.Upsert(ctx, tx, sampleRecord())
		require.NoError(t, err)
		assert.True(t, inserted, "first write must report an insert")

		inserted, err = repo.Upsert(ctx, tx, sampleRecord())
		require.NoError(t, err)
		assert.False(t, inserted, "second write must report an update")
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertErrorRollsBackTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO campaign_records`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := repo.Upsert(ctx, tx, sampleRecord())
		return err
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByDate(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM campaign_records WHERE report_date = \$1 AND campaign_type = \$2`).
		WithArgs("2026-08-31", domain.CampaignTypeLive).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteByDate(ctx, "2026-08-31", domain.CampaignTypeLive)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
