package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"imospy/infrastructure/logger"
)

var postgresTables = []struct {
	name string
	ddl  string
}{
	{"tracked_accounts", `CREATE TABLE IF NOT EXISTS tracked_accounts (
        id UUID PRIMARY KEY,
        user_id TEXT NOT NULL,
        platform TEXT NOT NULL,
        account_handle TEXT NOT NULL,
        account_name TEXT NOT NULL DEFAULT '',
        account_url TEXT,
        is_active BOOLEAN NOT NULL DEFAULT TRUE,
        added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        UNIQUE (user_id, platform, account_handle)
    )`},
	{"content", `CREATE TABLE IF NOT EXISTS content (
        id UUID PRIMARY KEY,
        tracked_account_id UUID NOT NULL REFERENCES tracked_accounts(id) ON DELETE CASCADE,
        platform TEXT NOT NULL,
        content_id TEXT NOT NULL,
        content_type TEXT NOT NULL,
        content_url TEXT NOT NULL DEFAULT '',
        caption TEXT NOT NULL DEFAULT '',
        media_urls JSONB NOT NULL DEFAULT '[]',
        engagement_data JSONB NOT NULL DEFAULT '{}',
        scraped_at TIMESTAMPTZ NOT NULL,
        UNIQUE (tracked_account_id, content_id)
    )`},
	{"companies", `CREATE TABLE IF NOT EXISTS companies (
        id UUID PRIMARY KEY,
        name TEXT NOT NULL UNIQUE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`},
	{"ads", `CREATE TABLE IF NOT EXISTS ads (
        ad_archive_id TEXT PRIMARY KEY,
        company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
        page_name TEXT NOT NULL DEFAULT '',
        ad_creative_body TEXT NOT NULL DEFAULT '',
        start_date TIMESTAMPTZ NOT NULL,
        end_date TIMESTAMPTZ,
        is_video BOOLEAN NOT NULL DEFAULT FALSE,
        media_url TEXT NOT NULL DEFAULT '',
        thumbnail_url TEXT NOT NULL DEFAULT '',
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`},
	{"analyses", `CREATE TABLE IF NOT EXISTS analyses (
        id UUID PRIMARY KEY,
        company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
        percentage DOUBLE PRECISION NOT NULL,
        ran_at TIMESTAMPTZ NOT NULL,
        results JSONB NOT NULL
    )`},
}

var postgresIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_tracked_accounts_user ON tracked_accounts (user_id, added_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_content_account_scraped ON content (tracked_account_id, scraped_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_company_ran ON analyses (company_id, ran_at DESC)`,
}

// EnsureSchema creates the tables used by the service if they are missing.
// Safe to call at startup.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, t := range postgresTables {
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create %s table: %w", t.name, err)
		}
	}
	for _, ddl := range postgresIndexes {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			logger.GetLogger().WithField("error", err).WithField("ddl", ddl).Warn("failed creating index")
		}
	}
	return nil
}
