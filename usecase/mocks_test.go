package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"imospy/domain/dto"
	"imospy/domain/event"
	"imospy/domain/model"
	"imospy/domain/platform"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) ListByUser(ctx context.Context, userID string) ([]model.TrackedAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrackedAccount), args.Error(1)
}

func (m *MockAccountRepo) ListActive(ctx context.Context) ([]model.TrackedAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrackedAccount), args.Error(1)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, userID, id string) (*model.TrackedAccount, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrackedAccount), args.Error(1)
}

func (m *MockAccountRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepo) Exists(ctx context.Context, userID, platform, handle string) (bool, error) {
	args := m.Called(ctx, userID, platform, handle)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepo) Create(ctx context.Context, account *model.TrackedAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) Update(ctx context.Context, userID, id string, patch model.AccountPatch) (*model.TrackedAccount, error) {
	args := m.Called(ctx, userID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrackedAccount), args.Error(1)
}

func (m *MockAccountRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

type MockContentRepo struct {
	mock.Mock
}

func (m *MockContentRepo) UpsertBatch(ctx context.Context, rows []model.Content) (int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Error(1)
}

func (m *MockContentRepo) ListByUser(ctx context.Context, userID string) ([]model.Content, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Content), args.Error(1)
}

func (m *MockContentRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]model.Content, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Content), args.Error(1)
}

type MockPostSource struct {
	mock.Mock
}

func (m *MockPostSource) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockPostSource) GetPosts(ctx context.Context, platformName, identifier string) ([]platform.Post, error) {
	args := m.Called(ctx, platformName, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.Post), args.Error(1)
}

type MockScrapeLock struct {
	mock.Mock
}

func (m *MockScrapeLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockScrapeLock) Unlock(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockScrapeCreators struct {
	mock.Mock
}

func (m *MockScrapeCreators) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockScrapeCreators) GetInstagramProfile(ctx context.Context, handle string) (*dto.InstagramProfileResponse, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InstagramProfileResponse), args.Error(1)
}

func (m *MockScrapeCreators) GetTikTokVideos(ctx context.Context, handle string) (*dto.TikTokVideosResponse, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TikTokVideosResponse), args.Error(1)
}

func (m *MockScrapeCreators) GetLinkedInProfile(ctx context.Context, url string) (*dto.LinkedInProfileResponse, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LinkedInProfileResponse), args.Error(1)
}

func (m *MockScrapeCreators) GetLinkedInCompany(ctx context.Context, url string) (*dto.LinkedInProfileResponse, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LinkedInProfileResponse), args.Error(1)
}

func (m *MockScrapeCreators) GetLinkedInPost(ctx context.Context, url string) (*platform.LinkedInPostDetail, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.LinkedInPostDetail), args.Error(1)
}

func (m *MockScrapeCreators) GetCompanyAds(ctx context.Context, companyName string) ([]model.Ad, error) {
	args := m.Called(ctx, companyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ad), args.Error(1)
}

func (m *MockScrapeCreators) GetAdDetails(ctx context.Context, adID string) (*model.AdDetails, error) {
	args := m.Called(ctx, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdDetails), args.Error(1)
}

type MockAdHistory struct {
	mock.Mock
}

func (m *MockAdHistory) UpsertCompany(ctx context.Context, name string) (*model.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockAdHistory) FindCompany(ctx context.Context, name string) (*model.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockAdHistory) UpsertAds(ctx context.Context, ads []model.StoredAd) error {
	return m.Called(ctx, ads).Error(0)
}

func (m *MockAdHistory) InsertAnalysis(ctx context.Context, analysis *model.Analysis) error {
	return m.Called(ctx, analysis).Error(0)
}

func (m *MockAdHistory) ListAnalyses(ctx context.Context, companyID string) ([]model.Analysis, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Analysis), args.Error(1)
}

func (m *MockAdHistory) GetAds(ctx context.Context, adArchiveIDs []string) ([]model.StoredAd, error) {
	args := m.Called(ctx, adArchiveIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StoredAd), args.Error(1)
}

type MockAdDetailLog struct {
	mock.Mock
}

func (m *MockAdDetailLog) Insert(ctx context.Context, log *model.AdDetailLog) error {
	return m.Called(ctx, log).Error(0)
}

// memoryCache is an in-process ad detail cache.
type memoryCache struct {
	mu    sync.Mutex
	items map[string]model.AdDetails
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]model.AdDetails{}}
}

func (c *memoryCache) Get(_ context.Context, adID string) (*model.AdDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.items[adID]
	if !ok {
		return nil, false
	}
	return &d, true
}

func (c *memoryCache) Set(_ context.Context, adID string, details *model.AdDetails, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[adID] = *details
}

// recorder collects emitted events.
type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Emit(_ context.Context, evt event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

func (r *recorder) find(name string) (event.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Name == name {
			return e, true
		}
	}
	return event.Event{}, false
}
