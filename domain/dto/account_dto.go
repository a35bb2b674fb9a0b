package dto

import "imospy/domain/model"

// CreateAccountRequest represents request for tracking a new account
type CreateAccountRequest struct {
	Platform      string  `json:"platform" validate:"required,oneof=instagram tiktok linkedin"`
	AccountHandle string  `json:"account_handle" validate:"required"`
	AccountName   string  `json:"account_name,omitempty"`
	AccountURL    *string `json:"account_url,omitempty" validate:"omitempty,url"`
}

// UpdateAccountRequest represents a partial account update
type UpdateAccountRequest struct {
	IsActive    *bool   `json:"is_active,omitempty"`
	AccountName *string `json:"account_name,omitempty" validate:"omitempty,min=1"`
}

type AccountListResponse struct {
	Accounts []model.TrackedAccount `json:"accounts"`
}

type AccountResponse struct {
	Account *model.TrackedAccount `json:"account"`
}
