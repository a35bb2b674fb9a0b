package repository

import (
	"context"
	"time"

	"imospy/domain/model"
)

// IAdHistory records analyses together with the ads they returned.
type IAdHistory interface {
	UpsertCompany(ctx context.Context, name string) (*model.Company, error)
	FindCompany(ctx context.Context, name string) (*model.Company, error)
	UpsertAds(ctx context.Context, ads []model.StoredAd) error
	InsertAnalysis(ctx context.Context, analysis *model.Analysis) error
	ListAnalyses(ctx context.Context, companyID string) ([]model.Analysis, error)
	GetAds(ctx context.Context, adArchiveIDs []string) ([]model.StoredAd, error)
}

// IAdDetailLog keeps the raw detail payloads of each analysis run.
type IAdDetailLog interface {
	Insert(ctx context.Context, log *model.AdDetailLog) error
}

// IAdDetailCache caches per-ad details between analyses.
type IAdDetailCache interface {
	Get(ctx context.Context, adID string) (*model.AdDetails, bool)
	Set(ctx context.Context, adID string, details *model.AdDetails, ttl time.Duration)
}

// IScrapeLock serializes scrapes of the same account.
type IScrapeLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}
