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

const accountColumns = `id, user_id, platform, account_handle, account_name, account_url, is_active, added_at`

// AccountRepository is the PostgreSQL implementation of IAccount.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.IAccount {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]model.TrackedAccount, error) {
	return r.query(ctx, `SELECT `+accountColumns+` FROM tracked_accounts WHERE user_id = $1 ORDER BY added_at DESC`, userID)
}

func (r *AccountRepository) ListActive(ctx context.Context) ([]model.TrackedAccount, error) {
	return r.query(ctx, `SELECT `+accountColumns+` FROM tracked_accounts WHERE is_active = TRUE ORDER BY added_at ASC`)
}

func (r *AccountRepository) GetByID(ctx context.Context, userID, id string) (*model.TrackedAccount, error) {
	// a malformed id can never match a UUID column
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	stmt, err := r.db.PrepareContext(ctx, `SELECT `+accountColumns+` FROM tracked_accounts WHERE id = $1 AND user_id = $2`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while preparing statement")
		return nil, err
	}
	defer stmt.Close()

	account, err := scanAccount(stmt.QueryRowContext(ctx, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracked_accounts WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *AccountRepository) Exists(ctx context.Context, userID, platform, handle string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tracked_accounts WHERE user_id = $1 AND platform = $2 AND account_handle = $3)`,
		userID, platform, handle).Scan(&exists)
	return exists, err
}

func (r *AccountRepository) Create(ctx context.Context, account *model.TrackedAccount) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.AddedAt.IsZero() {
		account.AddedAt = time.Now().UTC()
	}
	stmt, err := r.db.PrepareContext(ctx, `INSERT INTO tracked_accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while preparing statement")
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, account.ID, account.UserID, account.Platform, account.AccountHandle,
		account.AccountName, account.AccountURL, account.IsActive, account.AddedAt)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":  err,
			"handle": account.AccountHandle,
		}).Error("create tracked account failed")
	}
	return err
}

func (r *AccountRepository) Update(ctx context.Context, userID, id string, patch model.AccountPatch) (*model.TrackedAccount, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx, `UPDATE tracked_accounts
        SET is_active = COALESCE($3, is_active), account_name = COALESCE($4, account_name)
        WHERE id = $1 AND user_id = $2
        RETURNING `+accountColumns, id, userID, patch.IsActive, patch.AccountName)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM tracked_accounts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *AccountRepository) query(ctx context.Context, q string, args ...interface{}) ([]model.TrackedAccount, error) {
	stmt, err := r.db.PrepareContext(ctx, q)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while preparing statement")
		return nil, err
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while querying tracked accounts")
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*model.TrackedAccount, error) {
	var (
		a   model.TrackedAccount
		url sql.NullString
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.Platform, &a.AccountHandle, &a.AccountName, &url, &a.IsActive, &a.AddedAt); err != nil {
		return nil, err
	}
	if url.Valid {
		a.AccountURL = &url.String
	}
	return &a, nil
}

func scanAccounts(rows *sql.Rows) ([]model.TrackedAccount, error) {
	accounts := []model.TrackedAccount{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}
