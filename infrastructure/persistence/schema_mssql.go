package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var mssqlTables = []struct {
	name string
	ddl  string
}{
	{"tracked_accounts", `CREATE TABLE dbo.[tracked_accounts] (
        id NVARCHAR(36) NOT NULL PRIMARY KEY,
        user_id NVARCHAR(255) NOT NULL,
        platform NVARCHAR(32) NOT NULL,
        account_handle NVARCHAR(255) NOT NULL,
        account_name NVARCHAR(255) NOT NULL DEFAULT '',
        account_url NVARCHAR(1024) NULL,
        is_active BIT NOT NULL DEFAULT 1,
        added_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME(),
        CONSTRAINT uq_tracked_accounts UNIQUE (user_id, platform, account_handle)
    )`},
	{"content", `CREATE TABLE dbo.[content] (
        id NVARCHAR(36) NOT NULL PRIMARY KEY,
        tracked_account_id NVARCHAR(36) NOT NULL REFERENCES dbo.[tracked_accounts](id) ON DELETE CASCADE,
        platform NVARCHAR(32) NOT NULL,
        content_id NVARCHAR(450) NOT NULL,
        content_type NVARCHAR(32) NOT NULL,
        content_url NVARCHAR(2048) NOT NULL DEFAULT '',
        caption NVARCHAR(MAX) NOT NULL DEFAULT '',
        media_urls NVARCHAR(MAX) NOT NULL DEFAULT '[]',
        engagement_data NVARCHAR(MAX) NOT NULL DEFAULT '{}',
        scraped_at DATETIME2 NOT NULL,
        CONSTRAINT uq_content_account_content UNIQUE (tracked_account_id, content_id)
    )`},
}

// EnsureSchemaMSSQL creates the account and content tables in SQL Server.
// Ad history stays on PostgreSQL.
func EnsureSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, t := range mssqlTables {
		q := fmt.Sprintf(`IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.%s') AND type in (N'U'))
BEGIN
%s
END`, t.name, t.ddl)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure table %s: %w", t.name, err)
		}
	}
	return nil
}
