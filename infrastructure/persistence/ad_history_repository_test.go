package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imospy/domain/model"
)

func TestAdHistoryRepository_UpsertCompany(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name`)).
		WithArgs(sqlmock.AnyArg(), "Acme", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow("co-1", "Acme", created))

	c, err := NewAdHistoryRepository(db).UpsertCompany(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, &model.Company{ID: "co-1", Name: "Acme", CreatedAt: created}, c)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdHistoryRepository_FindCompany_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, created_at FROM companies WHERE name = $1`)).
		WithArgs("Ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

	c, err := NewAdHistoryRepository(db).FindCompany(context.Background(), "Ghost")
	require.NoError(t, err)
	assert.Nil(t, c)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdHistoryRepository_UpsertAds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ads := []model.StoredAd{
		{AdArchiveID: "1", CompanyID: "co-1", StartDate: start, IsVideo: true, MediaURL: "v.mp4"},
		{AdArchiveID: "2", CompanyID: "co-1", StartDate: start},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(`ON CONFLICT (ad_archive_id) DO UPDATE SET`))
	prep.ExpectExec().WithArgs("1", "co-1", "", "", start, nil, true, "v.mp4", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("2", "co-1", "", "", start, nil, false, "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewAdHistoryRepository(db).UpsertAds(context.Background(), ads))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdHistoryRepository_InsertAndListAnalyses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAdHistoryRepository(db)
	ranAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO analyses (id, company_id, percentage, ran_at, results) VALUES ($1, $2, $3, $4, $5)`)).
		WithArgs(sqlmock.AnyArg(), "co-1", 50.0, ranAt, `{"longestRunningAds":["1","2"]}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE company_id = $1 ORDER BY ran_at DESC`)).
		WithArgs("co-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "percentage", "ran_at", "results"}).
			AddRow("an-1", "co-1", 50.0, ranAt, []byte(`{"longestRunningAds":["1","2"]}`)))

	analysis := &model.Analysis{CompanyID: "co-1", Percentage: 50, RanAt: ranAt,
		Results: model.AnalysisResults{LongestRunningAds: []string{"1", "2"}}}
	require.NoError(t, repo.InsertAnalysis(context.Background(), analysis))
	assert.NotEmpty(t, analysis.ID)

	list, err := repo.ListAnalyses(context.Background(), "co-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"1", "2"}, list[0].Results.LongestRunningAds)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdHistoryRepository_GetAds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM ads WHERE ad_archive_id = ANY($1)`)).
		WithArgs(pq.Array([]string{"1", "2"})).
		WillReturnRows(sqlmock.NewRows([]string{"ad_archive_id", "company_id", "page_name", "ad_creative_body", "start_date", "end_date", "is_video", "media_url", "thumbnail_url", "updated_at"}).
			AddRow("1", "co-1", "Acme", "buy", start, end, false, "i.jpg", "", start).
			AddRow("2", "co-1", "Acme", "", start, nil, true, "v.mp4", "t.jpg", start))

	ads, err := NewAdHistoryRepository(db).GetAds(context.Background(), []string{"1", "2"})
	require.NoError(t, err)
	require.Len(t, ads, 2)
	require.NotNil(t, ads[0].EndDate)
	assert.Equal(t, end, *ads[0].EndDate)
	assert.Nil(t, ads[1].EndDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdHistoryRepository_GetAds_NoIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ads, err := NewAdHistoryRepository(db).GetAds(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ads)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdDetailLogRepository_NilDatabaseIsNoop(t *testing.T) {
	repo := NewAdDetailLogRepository(nil)
	err := repo.Insert(context.Background(), &model.AdDetailLog{Company: "Acme"})
	require.NoError(t, err)
}
