package usecase

import (
	"errors"
	"net/http"
)

// Errors returned by the usecases. Their messages are safe to show to API
// clients; wrapped causes are logged, never returned.
var (
	ErrInvalidRequest         = errors.New("Invalid request")
	ErrUnsupportedPlatform    = errors.New("Unsupported platform")
	ErrAccountNotFound        = errors.New("Account not found")
	ErrAccountPaused          = errors.New("Account is paused")
	ErrAccountLimit           = errors.New("Maximum of 5 accounts allowed")
	ErrAccountExists          = errors.New("Account already being tracked")
	ErrScrapeInProgress       = errors.New("Scrape already in progress")
	ErrContentUnavailable     = errors.New("Content not available. The account may be private or the handle may be incorrect.")
	ErrProviderAuth           = errors.New("Scraping service authentication failed")
	ErrProviderNotConfigured  = errors.New("ScrapeCreators API key not configured")
	ErrUpstream               = errors.New("Scraping service request failed")
	ErrInvalidAnalysisRequest = errors.New("Missing companyName or percentage")
)

const internalErrorMessage = "Internal server error"

// ErrorStatus maps each usecase error to its HTTP status. Order matters:
// the first match wins.
var ErrorStatus = []struct {
	Err    error
	Status int
}{
	{ErrInvalidRequest, http.StatusBadRequest},
	{ErrUnsupportedPlatform, http.StatusBadRequest},
	{ErrAccountNotFound, http.StatusNotFound},
	{ErrAccountPaused, http.StatusBadRequest},
	{ErrAccountLimit, http.StatusBadRequest},
	{ErrAccountExists, http.StatusBadRequest},
	{ErrScrapeInProgress, http.StatusConflict},
	{ErrContentUnavailable, http.StatusBadRequest},
	{ErrInvalidAnalysisRequest, http.StatusBadRequest},
	{ErrProviderAuth, http.StatusInternalServerError},
	{ErrProviderNotConfigured, http.StatusInternalServerError},
	{ErrUpstream, http.StatusInternalServerError},
}

// publicError is a usecase error with a more specific client message.
type publicError struct {
	kind error
	msg  string
}

func (e *publicError) Error() string { return e.msg }

func (e *publicError) Unwrap() error { return e.kind }

func invalid(msg string) error {
	return &publicError{kind: ErrInvalidRequest, msg: msg}
}

// Status returns the HTTP status for err, 500 when it is not a usecase error.
func Status(err error) int {
	for _, entry := range ErrorStatus {
		if errors.Is(err, entry.Err) {
			return entry.Status
		}
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the client-facing message for err.
func PublicMessage(err error) string {
	var pe *publicError
	if errors.As(err, &pe) {
		return pe.msg
	}
	for _, entry := range ErrorStatus {
		if errors.Is(err, entry.Err) {
			return entry.Err.Error()
		}
	}
	return internalErrorMessage
}
