package model

import "time"

// MaxTrackedAccounts is the per-user limit on tracked accounts.
const MaxTrackedAccounts = 5

// TrackedAccount is a (platform, handle) pair a user monitors for new content.
type TrackedAccount struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Platform      string    `json:"platform"`
	AccountHandle string    `json:"account_handle"`
	AccountName   string    `json:"account_name"`
	AccountURL    *string   `json:"account_url,omitempty"`
	IsActive      bool      `json:"is_active"`
	AddedAt       time.Time `json:"added_at"`
}

// AccountPatch holds the optional fields of an account update.
type AccountPatch struct {
	IsActive    *bool
	AccountName *string
}
