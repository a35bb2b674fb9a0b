package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"imospy/domain/model"
	"imospy/domain/repository"
	"imospy/infrastructure/logger"
)

const storedAdColumns = `ad_archive_id, company_id, page_name, ad_creative_body, start_date, end_date, is_video, media_url, thumbnail_url, updated_at`

// AdHistoryRepository stores companies, their ads and analysis runs in PostgreSQL.
type AdHistoryRepository struct {
	db *sql.DB
}

func NewAdHistoryRepository(db *sql.DB) repository.IAdHistory {
	return &AdHistoryRepository{db: db}
}

func (r *AdHistoryRepository) UpsertCompany(ctx context.Context, name string) (*model.Company, error) {
	var c model.Company
	err := r.db.QueryRowContext(ctx, `INSERT INTO companies (id, name, created_at) VALUES ($1, $2, $3)
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id, name, created_at`, uuid.NewString(), name, time.Now().UTC()).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert company %q: %w", name, err)
	}
	return &c, nil
}

func (r *AdHistoryRepository) FindCompany(ctx context.Context, name string) (*model.Company, error) {
	var c model.Company
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM companies WHERE name = $1`, name).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AdHistoryRepository) UpsertAds(ctx context.Context, ads []model.StoredAd) (err error) {
	if len(ads) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ads (`+storedAdColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (ad_archive_id) DO UPDATE SET
            company_id = EXCLUDED.company_id,
            page_name = EXCLUDED.page_name,
            ad_creative_body = EXCLUDED.ad_creative_body,
            start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date,
            is_video = EXCLUDED.is_video,
            media_url = EXCLUDED.media_url,
            thumbnail_url = EXCLUDED.thumbnail_url,
            updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare ad upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, ad := range ads {
		if ad.UpdatedAt.IsZero() {
			ad.UpdatedAt = now
		}
		if _, err = stmt.ExecContext(ctx, ad.AdArchiveID, ad.CompanyID, ad.PageName, ad.AdCreativeBody,
			ad.StartDate, ad.EndDate, ad.IsVideo, ad.MediaURL, ad.ThumbnailURL, ad.UpdatedAt); err != nil {
			logger.GetLogger().WithField("error", err).WithField("ad_archive_id", ad.AdArchiveID).Error("ad upsert failed")
			return fmt.Errorf("upsert ad %s: %w", ad.AdArchiveID, err)
		}
	}
	return tx.Commit()
}

func (r *AdHistoryRepository) InsertAnalysis(ctx context.Context, analysis *model.Analysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}
	if analysis.RanAt.IsZero() {
		analysis.RanAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO analyses (id, company_id, percentage, ran_at, results) VALUES ($1, $2, $3, $4, $5)`,
		analysis.ID, analysis.CompanyID, analysis.Percentage, analysis.RanAt, analysis.Results)
	return err
}

func (r *AdHistoryRepository) ListAnalyses(ctx context.Context, companyID string) ([]model.Analysis, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, company_id, percentage, ran_at, results FROM analyses
        WHERE company_id = $1 ORDER BY ran_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Analysis{}
	for rows.Next() {
		var a model.Analysis
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Percentage, &a.RanAt, &a.Results); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AdHistoryRepository) GetAds(ctx context.Context, adArchiveIDs []string) ([]model.StoredAd, error) {
	if len(adArchiveIDs) == 0 {
		return []model.StoredAd{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+storedAdColumns+` FROM ads WHERE ad_archive_id = ANY($1)`, pq.Array(adArchiveIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.StoredAd{}
	for rows.Next() {
		var (
			ad  model.StoredAd
			end sql.NullTime
		)
		if err := rows.Scan(&ad.AdArchiveID, &ad.CompanyID, &ad.PageName, &ad.AdCreativeBody, &ad.StartDate,
			&end, &ad.IsVideo, &ad.MediaURL, &ad.ThumbnailURL, &ad.UpdatedAt); err != nil {
			return nil, err
		}
		if end.Valid {
			t := end.Time
			ad.EndDate = &t
		}
		out = append(out, ad)
	}
	return out, rows.Err()
}
