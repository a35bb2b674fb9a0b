package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"imospy/domain/dto"
	"imospy/domain/event"
	"imospy/domain/model"
	"imospy/domain/platform"
	"imospy/domain/repository"
	"imospy/infrastructure/logger"
)

const defaultLockTTL = 5 * time.Minute

// IPostSource lists the posts of an account.
type IPostSource interface {
	Configured() bool
	GetPosts(ctx context.Context, platformName, identifier string) ([]platform.Post, error)
}

// IScrapeUsecase scrapes tracked accounts into the content store.
type IScrapeUsecase interface {
	ScrapeAccount(ctx context.Context, userID, accountID string) (*dto.ScrapeResponse, error)
	ScrapeAllActive(ctx context.Context) (dto.ScrapeRunSummary, error)
}

type ScrapeUsecase struct {
	accounts repository.IAccount
	content  repository.IContent
	posts    IPostSource
	lock     repository.IScrapeLock
	sink     event.Sink
	lockTTL  time.Duration
	now      func() time.Time
}

func NewScrapeUsecase(accounts repository.IAccount, content repository.IContent, posts IPostSource, lock repository.IScrapeLock, sink event.Sink) *ScrapeUsecase {
	return &ScrapeUsecase{
		accounts: accounts,
		content:  content,
		posts:    posts,
		lock:     lock,
		sink:     event.OrNop(sink),
		lockTTL:  defaultLockTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithLockTTL sets how long a scrape lock is held at most (fluent).
func (u *ScrapeUsecase) WithLockTTL(ttl time.Duration) *ScrapeUsecase {
	if ttl > 0 {
		u.lockTTL = ttl
	}
	return u
}

// WithClock replaces the time source (fluent).
func (u *ScrapeUsecase) WithClock(now func() time.Time) *ScrapeUsecase {
	if now != nil {
		u.now = now
	}
	return u
}

func lockKey(accountID string) string {
	return "scrape:lock:" + accountID
}

func (u *ScrapeUsecase) ScrapeAccount(ctx context.Context, userID, accountID string) (*dto.ScrapeResponse, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, invalid("Account ID is required")
	}

	account, err := u.accounts.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", accountID, err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if !account.IsActive {
		return nil, ErrAccountPaused
	}
	return u.scrape(ctx, account)
}

func (u *ScrapeUsecase) scrape(ctx context.Context, account *model.TrackedAccount) (*dto.ScrapeResponse, error) {
	if u.posts == nil || !u.posts.Configured() {
		return nil, ErrProviderNotConfigured
	}

	key := lockKey(account.ID)
	if u.lock != nil {
		locked, err := u.lock.TryLock(ctx, key, u.lockTTL)
		switch {
		case err != nil:
			logger.GetLogger().WithField("account_id", account.ID).WithField("error", err).Warn("Scrape lock unavailable, continuing without it")
		case !locked:
			return nil, ErrScrapeInProgress
		default:
			defer func() {
				if err := u.lock.Unlock(context.WithoutCancel(ctx), key); err != nil {
					logger.GetLogger().WithField("account_id", account.ID).WithField("error", err).Warn("Failed to release scrape lock")
				}
			}()
		}
	}

	start := time.Now()
	u.emit(ctx, account, event.ScrapeStarted, map[string]interface{}{"account_id": account.ID, "handle": account.AccountHandle})

	posts, err := u.posts.GetPosts(ctx, account.Platform, account.AccountHandle)
	if err != nil {
		classified := classifyProviderError(err)
		logger.GetLogger().WithField("account_id", account.ID).WithField("platform", account.Platform).WithField("error", err).Error("Scrape failed")
		u.emit(ctx, account, event.ScrapeFailed, map[string]interface{}{
			"account_id": account.ID,
			"error":      PublicMessage(classified),
		})
		return nil, classified
	}

	if len(posts) == 0 {
		u.emit(ctx, account, event.ScrapeCompleted, map[string]interface{}{
			"account_id": account.ID, "scraped_count": 0, "stored_count": 0,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return &dto.ScrapeResponse{Message: "No content found for this account"}, nil
	}

	rows := u.toContent(ctx, account, posts)
	stored := 0
	if len(rows) > 0 {
		stored, err = u.content.UpsertBatch(ctx, rows)
		if err != nil {
			u.emit(ctx, account, event.ScrapeFailed, map[string]interface{}{"account_id": account.ID, "error": "store content"})
			return nil, fmt.Errorf("store content for %s: %w", account.ID, err)
		}
	}

	u.emit(ctx, account, event.ScrapeCompleted, map[string]interface{}{
		"account_id":    account.ID,
		"scraped_count": len(posts),
		"stored_count":  stored,
		"duration_ms":   time.Since(start).Milliseconds(),
	})

	return &dto.ScrapeResponse{
		Message:      "Content scraped successfully",
		ScrapedCount: len(posts),
		StoredCount:  stored,
	}, nil
}

// toContent normalizes posts into rows, dropping those without a content id.
func (u *ScrapeUsecase) toContent(ctx context.Context, account *model.TrackedAccount, posts []platform.Post) []model.Content {
	now := u.now()
	rows := make([]model.Content, 0, len(posts))
	for i, p := range posts {
		normalized := platform.Normalize(p, now)
		if normalized.ContentID == "" {
			u.emit(ctx, account, event.ContentSkippedNoID, map[string]interface{}{"account_id": account.ID, "index": i})
			continue
		}
		rows = append(rows, model.Content{
			TrackedAccountID:  account.ID,
			Platform:          account.Platform,
			NormalizedContent: normalized,
			ScrapedAt:         now,
		})
	}
	return rows
}

// ScrapeAllActive scrapes every active account in turn. Failures are counted
// and never stop the run; a cancelled context does.
func (u *ScrapeUsecase) ScrapeAllActive(ctx context.Context) (dto.ScrapeRunSummary, error) {
	var summary dto.ScrapeRunSummary
	accounts, err := u.accounts.ListActive(ctx)
	if err != nil {
		return summary, fmt.Errorf("list active accounts: %w", err)
	}

	for i := range accounts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		account := &accounts[i]
		summary.Accounts++
		resp, err := u.scrape(ctx, account)
		if err != nil {
			summary.Failed++
			logger.GetLogger().WithField("account_id", account.ID).WithField("error", err).Warn("Scheduled scrape of account failed")
			continue
		}
		summary.Stored += resp.StoredCount
	}
	return summary, nil
}

func (u *ScrapeUsecase) emit(ctx context.Context, account *model.TrackedAccount, name string, fields map[string]interface{}) {
	evt := event.New(name, fields)
	evt.Platform = account.Platform
	evt.UserID = account.UserID
	u.sink.Emit(ctx, evt)
}

// classifyProviderError maps a provider failure onto the usecase errors.
func classifyProviderError(err error) error {
	if errors.Is(err, ErrUnsupportedPlatform) {
		return err
	}
	var se repository.StatusError
	if errors.As(err, &se) {
		switch se.HTTPStatus() {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrContentUnavailable, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrProviderAuth, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}
