package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"imospy/domain/dto"
	"imospy/domain/event"
	"imospy/domain/model"
	"imospy/domain/platform"
	"imospy/domain/repository"
	"imospy/infrastructure/logger"
)

const (
	defaultDetailConcurrency = 10
	defaultDetailCacheTTL    = time.Hour
)

// IAdUsecase finds the longest running ads of a company.
type IAdUsecase interface {
	AnalyzeAds(ctx context.Context, companyName string, percentage float64) (*dto.AnalyzeAdsResponse, error)
	History(ctx context.Context, companyName string) (*dto.AdHistoryResponse, error)
}

// AdSource is the ad library side of the scraping provider.
type AdSource interface {
	GetCompanyAds(ctx context.Context, companyName string) ([]model.Ad, error)
	GetAdDetails(ctx context.Context, adID string) (*model.AdDetails, error)
}

// AdUsecase analyzes ad durations. History, detail log and cache are
// optional; a nil store is skipped.
type AdUsecase struct {
	source      AdSource
	history     repository.IAdHistory
	detailLog   repository.IAdDetailLog
	cache       repository.IAdDetailCache
	sink        event.Sink
	concurrency int
	cacheTTL    time.Duration
	now         func() time.Time
}

func NewAdUsecase(source AdSource, sink event.Sink) *AdUsecase {
	return &AdUsecase{
		source:      source,
		sink:        event.OrNop(sink),
		concurrency: defaultDetailConcurrency,
		cacheTTL:    defaultDetailCacheTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithHistory enables persisting analyses (fluent).
func (u *AdUsecase) WithHistory(history repository.IAdHistory) *AdUsecase {
	u.history = history
	return u
}

// WithDetailLog enables logging raw detail payloads (fluent).
func (u *AdUsecase) WithDetailLog(log repository.IAdDetailLog) *AdUsecase {
	u.detailLog = log
	return u
}

// WithCache enables the ad detail cache (fluent).
func (u *AdUsecase) WithCache(cache repository.IAdDetailCache, ttl time.Duration) *AdUsecase {
	u.cache = cache
	if ttl > 0 {
		u.cacheTTL = ttl
	}
	return u
}

// WithConcurrency bounds in-flight detail calls (fluent).
func (u *AdUsecase) WithConcurrency(n int) *AdUsecase {
	if n > 0 {
		u.concurrency = n
	}
	return u
}

// WithClock replaces the time source (fluent).
func (u *AdUsecase) WithClock(now func() time.Time) *AdUsecase {
	if now != nil {
		u.now = now
	}
	return u
}

// RankAdsByDuration returns the longest running ceil(N*percentage/100) ads,
// longest first. Ads still running are measured up to now, and ties keep
// their input order. An unparseable start yields a zero duration.
func RankAdsByDuration(details []model.AdDetails, percentage float64, now time.Time) []model.AdWithDuration {
	return rankAdsByDuration(context.Background(), details, percentage, now, nil)
}

func rankAdsByDuration(ctx context.Context, details []model.AdDetails, percentage float64, now time.Time, sink event.Sink) []model.AdWithDuration {
	ranked := make([]model.AdWithDuration, 0, len(details))
	for _, d := range details {
		ranked = append(ranked, model.AdWithDuration{AdDetails: d, Duration: adDuration(ctx, &d, now, sink)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Duration > ranked[j].Duration
	})

	n := int(math.Ceil(float64(len(ranked)) * percentage / 100))
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	return ranked[:n]
}

func adDuration(ctx context.Context, d *model.AdDetails, now time.Time, sink event.Sink) int64 {
	start, ok := platform.ParseTime(d.StartRaw())
	if !ok {
		event.OrNop(sink).Emit(ctx, event.New(event.AdsStartUnparseable, map[string]interface{}{
			"ad_archive_id": d.AdArchiveID,
			"start":         d.StartRaw(),
		}))
		return 0
	}
	end := now
	if stop, ok := platform.ParseTime(d.StopRaw()); ok {
		end = stop
	}
	return end.Sub(start).Milliseconds()
}

func (u *AdUsecase) AnalyzeAds(ctx context.Context, companyName string, percentage float64) (*dto.AnalyzeAdsResponse, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" || percentage <= 0 || percentage > 100 || math.IsNaN(percentage) {
		return nil, ErrInvalidAnalysisRequest
	}

	ads, err := u.source.GetCompanyAds(ctx, companyName)
	if err != nil {
		return nil, fmt.Errorf("%w: company ads of %s: %w", ErrUpstream, companyName, err)
	}

	ids := uniqueAdIDs(ads)
	details, err := u.fetchDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: ad details: %w", ErrUpstream, err)
	}

	now := u.now()
	longest := rankAdsByDuration(ctx, details, percentage, now, u.sink)

	u.sink.Emit(ctx, event.New(event.AdsAnalyzed, map[string]interface{}{
		"company":    companyName,
		"percentage": percentage,
		"ad_count":   len(details),
		"returned":   len(longest),
	}))

	u.recordHistory(ctx, companyName, percentage, longest, now)
	u.recordDetails(ctx, companyName, details)

	return &dto.AnalyzeAdsResponse{LongestRunningAds: longest}, nil
}

// uniqueAdIDs returns the archive ids in first-seen order.
func uniqueAdIDs(ads []model.Ad) []string {
	seen := make(map[string]bool, len(ads))
	ids := make([]string, 0, len(ads))
	for _, ad := range ads {
		if ad.AdArchiveID == "" || seen[ad.AdArchiveID] {
			continue
		}
		seen[ad.AdArchiveID] = true
		ids = append(ids, ad.AdArchiveID)
	}
	return ids
}

// fetchDetails loads every ad's details, in input order. One failure
// cancels the rest and fails the whole call.
func (u *AdUsecase) fetchDetails(ctx context.Context, ids []string) ([]model.AdDetails, error) {
	details := make([]model.AdDetails, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			if u.cache != nil {
				if cached, ok := u.cache.Get(gctx, id); ok {
					details[i] = *cached
					return nil
				}
			}
			d, err := u.source.GetAdDetails(gctx, id)
			if err != nil {
				return fmt.Errorf("ad %s: %w", id, err)
			}
			if d == nil {
				d = &model.AdDetails{AdArchiveID: id}
			}
			if u.cache != nil {
				u.cache.Set(gctx, id, d, u.cacheTTL)
			}
			details[i] = *d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

func (u *AdUsecase) recordHistory(ctx context.Context, companyName string, percentage float64, longest []model.AdWithDuration, now time.Time) {
	if u.history == nil {
		return
	}
	log := logger.GetLogger().WithField("company", companyName)

	company, err := u.history.UpsertCompany(ctx, companyName)
	if err != nil {
		log.WithField("error", err).Warn("Failed to save company")
		return
	}

	stored := make([]model.StoredAd, 0, len(longest))
	ids := make([]string, 0, len(longest))
	for _, ad := range longest {
		stored = append(stored, toStoredAd(company.ID, &ad.AdDetails, now))
		ids = append(ids, ad.AdArchiveID)
	}
	if err := u.history.UpsertAds(ctx, stored); err != nil {
		log.WithField("error", err).Warn("Failed to save ads")
		return
	}

	analysis := &model.Analysis{
		CompanyID:  company.ID,
		Percentage: percentage,
		RanAt:      now,
		Results:    model.AnalysisResults{LongestRunningAds: ids},
	}
	if err := u.history.InsertAnalysis(ctx, analysis); err != nil {
		log.WithField("error", err).Warn("Failed to save analysis")
	}
}

func (u *AdUsecase) recordDetails(ctx context.Context, companyName string, details []model.AdDetails) {
	if u.detailLog == nil {
		return
	}
	if err := u.detailLog.Insert(ctx, &model.AdDetailLog{Company: companyName, Details: details}); err != nil {
		logger.GetLogger().WithField("company", companyName).WithField("error", err).Warn("Failed to log ad details")
	}
}

// toStoredAd keeps the first creative of an ad: its first video when there
// is one, otherwise its first image.
func toStoredAd(companyID string, d *model.AdDetails, now time.Time) model.StoredAd {
	ad := model.StoredAd{
		AdArchiveID:    d.AdArchiveID,
		CompanyID:      companyID,
		PageName:       d.PageName,
		AdCreativeBody: d.Snapshot.Body.Text,
		UpdatedAt:      now,
	}
	if ad.AdCreativeBody == "" && len(d.AdCreativeBodies) > 0 {
		ad.AdCreativeBody = d.AdCreativeBodies[0]
	}
	if start, ok := platform.ParseTime(d.StartRaw()); ok {
		ad.StartDate = start
	}
	if stop, ok := platform.ParseTime(d.StopRaw()); ok {
		ad.EndDate = &stop
	}
	if len(d.Snapshot.Videos) > 0 {
		v := d.Snapshot.Videos[0]
		ad.IsVideo = true
		ad.MediaURL = v.VideoHDURL
		if ad.MediaURL == "" {
			ad.MediaURL = v.VideoSDURL
		}
		ad.ThumbnailURL = v.VideoPreviewImageURL
	} else if len(d.Snapshot.Images) > 0 {
		img := d.Snapshot.Images[0]
		ad.MediaURL = img.OriginalImageURL
		if ad.MediaURL == "" {
			ad.MediaURL = img.ResizedImageURL
		}
	}
	return ad
}

func (u *AdUsecase) History(ctx context.Context, companyName string) (*dto.AdHistoryResponse, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, invalid("Missing companyName")
	}
	resp := &dto.AdHistoryResponse{History: []dto.AdHistoryEntry{}}
	if u.history == nil {
		return resp, nil
	}

	company, err := u.history.FindCompany(ctx, companyName)
	if err != nil {
		return nil, fmt.Errorf("find company %s: %w", companyName, err)
	}
	if company == nil {
		return resp, nil
	}

	analyses, err := u.history.ListAnalyses(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("list analyses of %s: %w", companyName, err)
	}

	now := u.now()
	for _, analysis := range analyses {
		ids := analysis.Results.LongestRunningAds
		ads, err := u.history.GetAds(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load ads of analysis %s: %w", analysis.ID, err)
		}
		resp.History = append(resp.History, dto.AdHistoryEntry{
			ID:         analysis.ID,
			CompanyID:  analysis.CompanyID,
			Percentage: analysis.Percentage,
			RanAt:      analysis.RanAt,
			Results:    dto.AdHistoryResults{LongestRunningAds: historicalAds(ids, ads, now)},
		})
	}
	return resp, nil
}

// historicalAds orders stored ads as the analysis listed them and rebuilds
// their snapshot and duration.
func historicalAds(ids []string, ads []model.StoredAd, now time.Time) []dto.HistoricalAd {
	byID := make(map[string]model.StoredAd, len(ads))
	for _, ad := range ads {
		byID[ad.AdArchiveID] = ad
	}
	out := make([]dto.HistoricalAd, 0, len(ids))
	for _, id := range ids {
		ad, ok := byID[id]
		if !ok {
			continue
		}
		snapshot := model.AdSnapshot{
			Body:   model.AdBody{Text: ad.AdCreativeBody},
			Videos: []model.AdVideo{},
			Images: []model.AdImage{},
		}
		if ad.IsVideo {
			snapshot.Videos = append(snapshot.Videos, model.AdVideo{VideoHDURL: ad.MediaURL, VideoPreviewImageURL: ad.ThumbnailURL})
		} else {
			snapshot.Images = append(snapshot.Images, model.AdImage{OriginalImageURL: ad.MediaURL})
		}
		end := now
		if ad.EndDate != nil {
			end = *ad.EndDate
		}
		out = append(out, dto.HistoricalAd{
			StoredAd:         ad,
			AdArchiveIDAlias: ad.AdArchiveID,
			Snapshot:         snapshot,
			Duration:         end.Sub(ad.StartDate).Milliseconds(),
		})
	}
	return out
}
