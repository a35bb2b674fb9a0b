package persistence

import (
	"context"
	"database/sql"

	"imospy/domain/model"
	"imospy/domain/repository"
	"imospy/infrastructure/logger"
)

const upsertContentMSSQL = `MERGE dbo.[content] WITH (HOLDLOCK) AS t
USING (SELECT @p1 AS id, @p2 AS tracked_account_id, @p3 AS platform, @p4 AS content_id, @p5 AS content_type,
              @p6 AS content_url, @p7 AS caption, @p8 AS media_urls, @p9 AS engagement_data, @p10 AS scraped_at) AS s
ON t.tracked_account_id = s.tracked_account_id AND t.content_id = s.content_id
WHEN MATCHED THEN UPDATE SET
    content_type = s.content_type,
    content_url = s.content_url,
    caption = s.caption,
    media_urls = s.media_urls,
    engagement_data = s.engagement_data,
    scraped_at = s.scraped_at
WHEN NOT MATCHED THEN INSERT (id, tracked_account_id, platform, content_id, content_type, content_url, caption, media_urls, engagement_data, scraped_at)
    VALUES (s.id, s.tracked_account_id, s.platform, s.content_id, s.content_type, s.content_url, s.caption, s.media_urls, s.engagement_data, s.scraped_at);`

// ContentRepositoryMSSQL is a SQL Server implementation of IContent.
type ContentRepositoryMSSQL struct{ db *sql.DB }

func NewContentRepositoryMSSQL(db *sql.DB) repository.IContent { return &ContentRepositoryMSSQL{db} }

func (r *ContentRepositoryMSSQL) UpsertBatch(ctx context.Context, rows []model.Content) (int, error) {
	return upsertContent(ctx, r.db, upsertContentMSSQL, rows)
}

func (r *ContentRepositoryMSSQL) ListByUser(ctx context.Context, userID string) ([]model.Content, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contentColumns+`, a.platform, a.account_handle, a.account_name
        FROM dbo.[content] AS c
        JOIN dbo.[tracked_accounts] AS a ON a.id = c.tracked_account_id
        WHERE a.user_id = @p1
        ORDER BY c.scraped_at DESC`, userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: list content failed")
		return nil, err
	}
	defer rows.Close()
	return scanContents(rows, true)
}

func (r *ContentRepositoryMSSQL) ListByAccount(ctx context.Context, accountID string, limit int) ([]model.Content, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT TOP (@p2) `+contentColumns+`
        FROM dbo.[content] AS c
        WHERE c.tracked_account_id = @p1
        ORDER BY c.scraped_at DESC`, accountID, limit)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: list account content failed")
		return nil, err
	}
	defer rows.Close()
	return scanContents(rows, false)
}
