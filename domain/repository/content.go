package repository

import (
	"context"

	"imospy/domain/model"
)

// IContent stores normalized content keyed on (tracked_account_id, content_id).
type IContent interface {
	// UpsertBatch writes all rows in one transaction and returns the number stored.
	UpsertBatch(ctx context.Context, rows []model.Content) (int, error)
	ListByUser(ctx context.Context, userID string) ([]model.Content, error)
	ListByAccount(ctx context.Context, accountID string, limit int) ([]model.Content, error)
}
