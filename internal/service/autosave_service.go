package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/repository"
	"github.com/pickteum-api/internal/validation"
	"github.com/rs/zerolog"
)

// finalFlushTimeout bounds the flush performed when the processor stops
const finalFlushTimeout = 10 * time.Second

type stagedDraft struct {
	input    models.ArticleInput
	version  uint64
	stagedAt time.Time
}

// autosaveService keeps the latest editor snapshot per article and writes dirty snapshots
// through the article update path on a fixed interval
type autosaveService struct {
	articles ArticleService
	repo     repository.ArticleRepository
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger

	mu        sync.Mutex
	pending   map[string]*stagedDraft
	lastSaved map[string]time.Time
	lastErr   map[string]string
	seq       uint64

	runMu   sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// newAutosaveService creates a new AutosaveService
func newAutosaveService(articles ArticleService, repo repository.ArticleRepository, interval time.Duration, now func() time.Time, log zerolog.Logger) *autosaveService {
	return &autosaveService{
		articles:  articles,
		repo:      repo,
		interval:  interval,
		now:       now,
		log:       log.With().Str("service", "autosave").Logger(),
		pending:   make(map[string]*stagedDraft),
		lastSaved: make(map[string]time.Time),
		lastErr:   make(map[string]string),
	}
}

// Stage records the editor state of an existing article; it is written on the next flush.
// A later Stage for the same article replaces the earlier snapshot.
func (s *autosaveService) Stage(ctx context.Context, id string, in *models.ArticleInput) error {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil {
		return ErrNotFound
	}

	snapshot := *in
	if in.Tags != nil {
		snapshot.Tags = append([]string(nil), in.Tags...)
	}

	s.mu.Lock()
	s.seq++
	s.pending[id] = &stagedDraft{input: snapshot, version: s.seq, stagedAt: s.now()}
	s.mu.Unlock()

	return nil
}

// Flush writes every staged snapshot that has a title or content and returns how many were saved.
// Transient failures keep the snapshot for the next flush.
func (s *autosaveService) Flush(ctx context.Context) int {
	s.mu.Lock()
	batch := make(map[string]stagedDraft, len(s.pending))
	for id, d := range s.pending {
		batch[id] = *d
	}
	s.mu.Unlock()

	saved := 0
	for id, draft := range batch {
		if !draft.input.HasBody() {
			s.settle(id, draft.version)
			continue
		}

		_, err := s.articles.Update(ctx, id, &draft.input)

		s.mu.Lock()
		if err == nil {
			s.lastSaved[id] = s.now()
			delete(s.lastErr, id)
		} else {
			s.lastErr[id] = err.Error()
		}
		s.mu.Unlock()

		switch {
		case err == nil:
			saved++
			s.settle(id, draft.version)
		case permanentSaveError(err):
			s.log.Warn().Err(err).Str("article_id", id).Msg("Discarding autosave snapshot")
			s.settle(id, draft.version)
		default:
			s.log.Error().Err(err).Str("article_id", id).Msg("Autosave failed, will retry")
		}
	}

	if saved > 0 {
		s.log.Debug().Int("saved", saved).Msg("Autosave flush completed")
	}
	return saved
}

// settle drops the staged snapshot unless a newer one arrived during the flush
func (s *autosaveService) settle(id string, version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.pending[id]; ok && d.version == version {
		delete(s.pending, id)
	}
}

// Status reports whether the article has unsaved staged changes and when it was last saved
func (s *autosaveService) Status(id string) models.AutosaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.AutosaveStatus{ArticleID: id, LastError: s.lastErr[id]}
	_, status.Dirty = s.pending[id]
	if t, ok := s.lastSaved[id]; ok {
		status.LastSavedAt = &t
	}
	return status
}

// StartProcessor flushes staged drafts every interval until ctx is cancelled or StopProcessor is called
func (s *autosaveService) StartProcessor(ctx context.Context) {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	s.runMu.Unlock()

	defer s.wg.Done()

	s.log.Info().Dur("interval", s.interval).Msg("Autosave processor started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			// Write whatever is still staged before exiting
			flushCtx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
			s.Flush(flushCtx)
			cancel()
			s.log.Info().Msg("Autosave processor stopping")
			return
		case <-ticker.C:
			s.Flush(s.ctx)
		}
	}
}

// StopProcessor stops the processor and waits for its final flush.
// Without a running processor it flushes staged drafts itself.
func (s *autosaveService) StopProcessor() {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		flushCtx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
		defer cancel()
		s.Flush(flushCtx)
		return
	}
	s.cancel()
	s.runMu.Unlock()

	s.wg.Wait()

	s.runMu.Lock()
	s.running = false
	s.runMu.Unlock()
	s.log.Info().Msg("Autosave processor stopped")
}

// permanentSaveError reports errors that retrying the same snapshot cannot fix
func permanentSaveError(err error) bool {
	var verrs validation.Errors
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSlugTaken) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.As(err, &verrs)
}
