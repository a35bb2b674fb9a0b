package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"imospy/domain/model"
	"imospy/domain/repository"
	"imospy/infrastructure/logger"
)

const contentColumns = `c.id, c.tracked_account_id, c.platform, c.content_id, c.content_type, c.content_url, c.caption, c.media_urls, c.engagement_data, c.scraped_at`

const upsertContentPostgres = `INSERT INTO content (id, tracked_account_id, platform, content_id, content_type, content_url, caption, media_urls, engagement_data, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (tracked_account_id, content_id) DO UPDATE SET
    content_type = EXCLUDED.content_type,
    content_url = EXCLUDED.content_url,
    caption = EXCLUDED.caption,
    media_urls = EXCLUDED.media_urls,
    engagement_data = EXCLUDED.engagement_data,
    scraped_at = EXCLUDED.scraped_at`

// ContentRepository is the PostgreSQL implementation of IContent.
type ContentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) repository.IContent {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) UpsertBatch(ctx context.Context, rows []model.Content) (int, error) {
	return upsertContent(ctx, r.db, upsertContentPostgres, rows)
}

func (r *ContentRepository) ListByUser(ctx context.Context, userID string) ([]model.Content, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contentColumns+`, a.platform, a.account_handle, a.account_name
        FROM content AS c
        JOIN tracked_accounts AS a ON a.id = c.tracked_account_id
        WHERE a.user_id = $1
        ORDER BY c.scraped_at DESC`, userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while querying content")
		return nil, err
	}
	defer rows.Close()
	return scanContents(rows, true)
}

func (r *ContentRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]model.Content, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contentColumns+`
        FROM content AS c
        WHERE c.tracked_account_id = $1
        ORDER BY c.scraped_at DESC
        LIMIT $2`, accountID, limit)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while querying content")
		return nil, err
	}
	defer rows.Close()
	return scanContents(rows, false)
}

// upsertContent writes rows in a single transaction through one prepared
// statement; any failure rolls the whole batch back.
func upsertContent(ctx context.Context, db *sql.DB, q string, rows []model.Content) (n int, err error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("prepare content upsert: %w", err)
	}
	defer stmt.Close()

	for i := range rows {
		c := &rows[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if _, err = stmt.ExecContext(ctx, c.ID, c.TrackedAccountID, c.Platform, c.ContentID, string(c.ContentType),
			c.ContentURL, c.Caption, c.MediaURLs, c.EngagementData, c.ScrapedAt); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"error":      err,
				"content_id": c.ContentID,
			}).Error("content upsert failed")
			return 0, fmt.Errorf("upsert content %s: %w", c.ContentID, err)
		}
		n++
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func scanContents(rows *sql.Rows, withAccount bool) ([]model.Content, error) {
	out := []model.Content{}
	for rows.Next() {
		var c model.Content
		dest := []interface{}{&c.ID, &c.TrackedAccountID, &c.Platform, &c.ContentID, &c.ContentType,
			&c.ContentURL, &c.Caption, &c.MediaURLs, &c.EngagementData, &c.ScrapedAt}
		var acc model.AccountSummary
		if withAccount {
			dest = append(dest, &acc.Platform, &acc.AccountHandle, &acc.AccountName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if withAccount {
			c.Account = &acc
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
