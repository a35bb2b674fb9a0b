package repository

import (
	"context"

	"imospy/domain/model"
)

// IAccount persists tracked accounts. Lookups by id are scoped to the owner;
// a row owned by someone else is reported as not found (nil, nil).
type IAccount interface {
	ListByUser(ctx context.Context, userID string) ([]model.TrackedAccount, error)
	ListActive(ctx context.Context) ([]model.TrackedAccount, error)
	GetByID(ctx context.Context, userID, id string) (*model.TrackedAccount, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Exists(ctx context.Context, userID, platform, handle string) (bool, error)
	Create(ctx context.Context, account *model.TrackedAccount) error
	Update(ctx context.Context, userID, id string, patch model.AccountPatch) (*model.TrackedAccount, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}
