package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// schedulerService promotes due scheduled articles to published.
// Sweeps run in-process on a cron schedule and on demand over HTTP; all state lives in
// the articles table, so a restarted process picks up everything that became due while it was down.
type schedulerService struct {
	articles repository.ArticleRepository
	spec     string
	now      func() time.Time
	log      zerolog.Logger

	sweepMu sync.Mutex // one pass at a time within the process

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// newSchedulerService creates a new SchedulerService
func newSchedulerService(articles repository.ArticleRepository, spec string, now func() time.Time, log zerolog.Logger) *schedulerService {
	return &schedulerService{
		articles: articles,
		spec:     spec,
		now:      now,
		log:      log.With().Str("service", "scheduler").Logger(),
	}
}

// Sweep runs one pass. Running it again immediately publishes nothing further.
func (s *schedulerService) Sweep(ctx context.Context) (*models.SweepResult, error) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	now := s.now().UTC()
	published, err := s.articles.PublishDue(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("Scheduled publish sweep failed")
		return &models.SweepResult{Success: false}, fmt.Errorf("failed to publish scheduled articles: %w", err)
	}

	for _, a := range published {
		event := s.log.Info().Str("article_id", a.ID).Str("slug", a.Slug)
		if a.PublishedAt != nil {
			event = event.Time("published_at", *a.PublishedAt)
		}
		event.Msg("Scheduled article published")
	}
	if len(published) > 0 {
		s.log.Info().Int("count", len(published)).Msg("Scheduled publish sweep completed")
	}

	return &models.SweepResult{
		Success:        true,
		PublishedCount: len(published),
		Published:      published,
	}, nil
}

// Start runs a sweep immediately and then on the configured cron schedule
func (s *schedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	logger := cronLogger{log: s.log}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(s.spec, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("invalid scheduler spec %q: %w", s.spec, err)
	}

	s.tick(ctx)

	c.Start()
	s.cron = c
	s.running = true
	s.log.Info().Str("spec", s.spec).Msg("Scheduler started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *schedulerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false
	s.log.Info().Msg("Scheduler stopped")
}

// tick runs a sweep for the cron schedule; failures are already logged and retried next tick
func (s *schedulerService) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	_, _ = s.Sweep(ctx)
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
