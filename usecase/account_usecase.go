package usecase

import (
	"context"
	"fmt"
	"strings"

	"imospy/domain/dto"
	"imospy/domain/model"
	"imospy/domain/repository"
	"imospy/infrastructure/utils"
)

// IAccountUsecase manages the accounts a user tracks.
type IAccountUsecase interface {
	List(ctx context.Context, userID string) ([]model.TrackedAccount, error)
	Create(ctx context.Context, userID string, req dto.CreateAccountRequest) (*model.TrackedAccount, error)
	Update(ctx context.Context, userID, id string, req dto.UpdateAccountRequest) (*model.TrackedAccount, error)
	Delete(ctx context.Context, userID, id string) error
}

type AccountUsecase struct {
	accounts repository.IAccount
}

func NewAccountUsecase(accounts repository.IAccount) *AccountUsecase {
	return &AccountUsecase{accounts: accounts}
}

func (u *AccountUsecase) List(ctx context.Context, userID string) ([]model.TrackedAccount, error) {
	accounts, err := u.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (u *AccountUsecase) Create(ctx context.Context, userID string, req dto.CreateAccountRequest) (*model.TrackedAccount, error) {
	req.Platform = strings.ToLower(strings.TrimSpace(req.Platform))
	req.AccountHandle = strings.TrimSpace(req.AccountHandle)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, createValidationError(err)
	}

	exists, err := u.accounts.Exists(ctx, userID, req.Platform, req.AccountHandle)
	if err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if exists {
		return nil, ErrAccountExists
	}

	count, err := u.accounts.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}
	if count >= model.MaxTrackedAccounts {
		return nil, ErrAccountLimit
	}

	name := strings.TrimSpace(req.AccountName)
	if name == "" {
		name = req.AccountHandle
	}
	account := &model.TrackedAccount{
		UserID:        userID,
		Platform:      req.Platform,
		AccountHandle: req.AccountHandle,
		AccountName:   name,
		AccountURL:    req.AccountURL,
		IsActive:      true,
	}
	if err := u.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

func createValidationError(err error) error {
	fe, ok := utils.FirstFieldError(err)
	if !ok {
		return ErrInvalidRequest
	}
	switch fe.Tag() {
	case "required":
		return invalid("Platform and account handle are required")
	case "oneof":
		return invalid("Platform must be instagram, tiktok, or linkedin")
	case "url":
		return invalid("Account URL must be a valid URL")
	}
	return invalid(utils.ValidationMessage(err))
}

func (u *AccountUsecase) Update(ctx context.Context, userID, id string, req dto.UpdateAccountRequest) (*model.TrackedAccount, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalid(utils.ValidationMessage(err))
	}
	account, err := u.accounts.Update(ctx, userID, id, model.AccountPatch{IsActive: req.IsActive, AccountName: req.AccountName})
	if err != nil {
		return nil, fmt.Errorf("update account %s: %w", id, err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (u *AccountUsecase) Delete(ctx context.Context, userID, id string) error {
	deleted, err := u.accounts.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	if !deleted {
		return ErrAccountNotFound
	}
	return nil
}
