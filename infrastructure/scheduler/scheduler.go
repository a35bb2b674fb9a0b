package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"imospy/domain/dto"
	"imospy/infrastructure/logger"
)

// ActiveScraper scrapes every active tracked account.
type ActiveScraper interface {
	ScrapeAllActive(ctx context.Context) (dto.ScrapeRunSummary, error)
}

// ScrapeJob runs a full scrape of active accounts.
type ScrapeJob struct {
	scraper ActiveScraper
	timeout time.Duration
}

func NewScrapeJob(scraper ActiveScraper, timeout time.Duration) *ScrapeJob {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &ScrapeJob{scraper: scraper, timeout: timeout}
}

func (j *ScrapeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	summary, err := j.scraper.ScrapeAllActive(ctx)
	entry := logger.GetLogger().
		WithField("accounts", summary.Accounts).
		WithField("failed", summary.Failed).
		WithField("stored", summary.Stored).
		WithField("duration", time.Since(start).String())
	if err != nil {
		entry.WithField("error", err).Error("scheduled scrape failed")
		return
	}
	entry.Info("scheduled scrape finished")
}

// Manager owns the cron engine. Specs use six fields (with seconds).
type Manager struct {
	engine *cron.Cron
	job    cron.Job
	spec   string
}

func NewManager(spec string, job cron.Job) *Manager {
	return &Manager{
		engine: cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		job:    job,
		spec:   spec,
	}
}

// Enabled reports whether a schedule was configured.
func (m *Manager) Enabled() bool { return m.spec != "" }

func (m *Manager) RegisterJobs() error {
	if !m.Enabled() {
		return nil
	}
	_, err := m.engine.AddJob(m.spec, m.job)
	return err
}

func (m *Manager) Start() {
	if !m.Enabled() {
		logger.GetLogger().Info("Scrape schedule not configured, cron disabled")
		return
	}
	logger.GetLogger().WithField("schedule", m.spec).Info("Cron engine started")
	m.engine.Start()
}

// Stop stops the engine and waits for a running job until ctx ends.
func (m *Manager) Stop(ctx context.Context) {
	logger.GetLogger().Info("Cron engine stopping")
	select {
	case <-m.engine.Stop().Done():
	case <-ctx.Done():
		logger.GetLogger().Warn("Cron job still running at shutdown")
	}
}
