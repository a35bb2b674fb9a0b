package usecase

import (
	"context"
	"fmt"

	"imospy/domain/dto"
	"imospy/domain/model"
	"imospy/domain/repository"
)

const defaultContentLimit = 50

// IContentUsecase lists scraped content.
type IContentUsecase interface {
	ListAll(ctx context.Context, userID string) (*dto.ContentListResponse, error)
	ListByAccount(ctx context.Context, userID, accountID string) (*dto.AccountContentResponse, error)
}

type ContentUsecase struct {
	accounts repository.IAccount
	content  repository.IContent
	limit    int
}

func NewContentUsecase(accounts repository.IAccount, content repository.IContent, limit int) *ContentUsecase {
	if limit <= 0 {
		limit = defaultContentLimit
	}
	return &ContentUsecase{accounts: accounts, content: content, limit: limit}
}

func (u *ContentUsecase) ListAll(ctx context.Context, userID string) (*dto.ContentListResponse, error) {
	rows, err := u.content.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	if rows == nil {
		rows = []model.Content{}
	}
	return &dto.ContentListResponse{Content: rows, Count: len(rows)}, nil
}

func (u *ContentUsecase) ListByAccount(ctx context.Context, userID, accountID string) (*dto.AccountContentResponse, error) {
	account, err := u.accounts.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", accountID, err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	rows, err := u.content.ListByAccount(ctx, account.ID, u.limit)
	if err != nil {
		return nil, fmt.Errorf("list content of %s: %w", accountID, err)
	}
	if rows == nil {
		rows = []model.Content{}
	}
	return &dto.AccountContentResponse{Content: rows}, nil
}
