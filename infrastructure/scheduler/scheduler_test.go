package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imospy/domain/dto"
	"imospy/infrastructure/scheduler"
)

type countingScraper struct {
	calls int32
	err   error
}

func (c *countingScraper) ScrapeAllActive(ctx context.Context) (dto.ScrapeRunSummary, error) {
	atomic.AddInt32(&c.calls, 1)
	if _, ok := ctx.Deadline(); !ok {
		return dto.ScrapeRunSummary{}, errors.New("missing deadline")
	}
	return dto.ScrapeRunSummary{Accounts: 2, Stored: 10}, c.err
}

func TestScrapeJob_Run(t *testing.T) {
	s := &countingScraper{}
	scheduler.NewScrapeJob(s, time.Minute).Run()
	assert.Equal(t, int32(1), atomic.LoadInt32(&s.calls))

	failing := &countingScraper{err: errors.New("db down")}
	assert.NotPanics(t, scheduler.NewScrapeJob(failing, 0).Run)
}

func TestManager_RunsOnSchedule(t *testing.T) {
	s := &countingScraper{}
	m := scheduler.NewManager("* * * * * *", scheduler.NewScrapeJob(s, time.Minute))
	require.True(t, m.Enabled())
	require.NoError(t, m.RegisterJobs())

	m.Start()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&s.calls) >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.Stop(ctx)
}

func TestManager_DisabledWithoutSpec(t *testing.T) {
	m := scheduler.NewManager("", scheduler.NewScrapeJob(&countingScraper{}, time.Minute))
	assert.False(t, m.Enabled())
	require.NoError(t, m.RegisterJobs())
	m.Start()
	m.Stop(context.Background())
}

func TestManager_InvalidSpec(t *testing.T) {
	m := scheduler.NewManager("every tuesday", scheduler.NewScrapeJob(&countingScraper{}, time.Minute))
	assert.Error(t, m.RegisterJobs())
}
