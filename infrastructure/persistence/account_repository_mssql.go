package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"imospy/domain/model"
	"imospy/domain/repository"
	"imospy/infrastructure/logger"
)

// AccountRepositoryMSSQL is a SQL Server implementation of IAccount using database/sql.
type AccountRepositoryMSSQL struct{ db *sql.DB }

func NewAccountRepositoryMSSQL(db *sql.DB) repository.IAccount { return &AccountRepositoryMSSQL{db} }

func (r *AccountRepositoryMSSQL) ListByUser(ctx context.Context, userID string) ([]model.TrackedAccount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM dbo.[tracked_accounts] WHERE user_id = @p1 ORDER BY added_at DESC`, userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: list tracked accounts failed")
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (r *AccountRepositoryMSSQL) ListActive(ctx context.Context) ([]model.TrackedAccount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM dbo.[tracked_accounts] WHERE is_active = 1 ORDER BY added_at ASC`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: list active accounts failed")
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (r *AccountRepositoryMSSQL) GetByID(ctx context.Context, userID, id string) (*model.TrackedAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM dbo.[tracked_accounts] WHERE id = @p1 AND user_id = @p2`, id, userID)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: query account by id failed")
		return nil, err
	}
	return account, nil
}

func (r *AccountRepositoryMSSQL) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dbo.[tracked_accounts] WHERE user_id = @p1`, userID).Scan(&n)
	return n, err
}

func (r *AccountRepositoryMSSQL) Exists(ctx context.Context, userID, platform, handle string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dbo.[tracked_accounts] WHERE user_id = @p1 AND platform = @p2 AND account_handle = @p3`,
		userID, platform, handle).Scan(&n)
	return n > 0, err
}

func (r *AccountRepositoryMSSQL) Create(ctx context.Context, account *model.TrackedAccount) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.AddedAt.IsZero() {
		account.AddedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO dbo.[tracked_accounts] (`+accountColumns+`) VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8)`,
		account.ID, account.UserID, account.Platform, account.AccountHandle, account.AccountName, account.AccountURL, account.IsActive, account.AddedAt)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":  err,
			"handle": account.AccountHandle,
		}).Error("mssql: create tracked account failed")
	}
	return err
}

func (r *AccountRepositoryMSSQL) Update(ctx context.Context, userID, id string, patch model.AccountPatch) (*model.TrackedAccount, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE dbo.[tracked_accounts]
        SET is_active = COALESCE(@p3, is_active), account_name = COALESCE(@p4, account_name)
        OUTPUT INSERTED.id, INSERTED.user_id, INSERTED.platform, INSERTED.account_handle, INSERTED.account_name, INSERTED.account_url, INSERTED.is_active, INSERTED.added_at
        WHERE id = @p1 AND user_id = @p2`, id, userID, patch.IsActive, patch.AccountName)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: update tracked account failed")
		return nil, err
	}
	return account, nil
}

func (r *AccountRepositoryMSSQL) Delete(ctx context.Context, userID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[tracked_accounts] WHERE id = @p1 AND user_id = @p2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
