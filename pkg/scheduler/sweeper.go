// Package scheduler lifts timed bans once they expire.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	anticrash "github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
)

const unbanReason = "Timer expired."

// Store lists and removes pending sanctions
type Store interface {
	DueSanctions(ctx context.Context, now time.Time) ([]*models.PendingSanction, error)
	DeletePendingSanctionByID(ctx context.Context, id int64) error
}

// Platform resolves guilds and users and lifts bans. Lookups of targets
// that no longer exist fail with moderation.ErrUnknownTarget.
type Platform interface {
	Guild(ctx context.Context, guildID string) (*moderation.Identity, error)
	User(ctx context.Context, userID string) (*moderation.Identity, error)
	Unban(ctx context.Context, guildID, userID, reason string) error
}

// CycleReport summarises one sweep
type CycleReport struct {
	Due      int
	Reversed int
	Skipped  int
	Dropped  int
}

// Sweeper periodically reverses expired timed bans
type Sweeper struct {
	store      Store
	platform   Platform
	interval   time.Duration
	staleAfter time.Duration
	now        func() time.Time
	ready      <-chan struct{}

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// Option configures a Sweeper
type Option func(*Sweeper)

// WithInterval sets the polling interval
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithStaleAfter sets how long past its expiry an unresolvable sanction is
// kept before it is dropped
func WithStaleAfter(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// WithReady delays the first cycle until ready is closed
func WithReady(ready <-chan struct{}) Option {
	return func(s *Sweeper) { s.ready = ready }
}

// New creates a Sweeper
func New(store Store, platform Platform, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:      store,
		platform:   platform,
		interval:   2 * time.Minute,
		staleAfter: 30 * 24 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the sweep loop in the background until Stop is called or ctx
// is cancelled. Calling Start on a running Sweeper does nothing.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop(ctx, s.stop, s.done)
}

// Stop ends the loop and waits for an in-flight cycle to finish
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	logger.Info("Barrido de sanciones detenido", "Scheduler")
}

func (s *Sweeper) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	if s.ready != nil {
		select {
		case <-s.ready:
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
	logger.Info("Barrido de sanciones iniciado (intervalo: "+s.interval.String()+")", "Scheduler")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)
		select {
		case <-ticker.C:
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sweep runs one cycle detached from ctx's cancellation so that shutdown
// never interrupts it halfway.
func (s *Sweeper) sweep(ctx context.Context) {
	defer anticrash.RecoverMiddleware()()

	report := s.RunCycle(context.WithoutCancel(ctx))
	if report.Due > 0 {
		logger.Info(fmt.Sprintf("Sanciones vencidas: %d, revertidas: %d, pendientes: %d, descartadas: %d",
			report.Due, report.Reversed, report.Skipped, report.Dropped), "Scheduler")
	}
}

// RunCycle processes every pending sanction due at the current time once
func (s *Sweeper) RunCycle(ctx context.Context) CycleReport {
	sweepCycles.Inc()
	now := s.now()

	due, err := s.store.DueSanctions(ctx, now)
	if err != nil {
		logger.Error("No se pudieron cargar las sanciones pendientes: "+err.Error(), "Scheduler")
		return CycleReport{}
	}

	report := CycleReport{Due: len(due)}
	for _, p := range due {
		if err := s.resolve(ctx, p); err != nil {
			if errors.Is(err, moderation.ErrUnknownTarget) && now.Sub(p.ExpiresAt) > s.staleAfter {
				logger.Warn(fmt.Sprintf("Descartando sanción %d de %s en %s: %v", p.ID, p.UserID, p.GuildID, err), "Scheduler")
				s.delete(ctx, p)
				report.Dropped++
				sanctionsProcessed.WithLabelValues("dropped").Inc()
				continue
			}
			report.Skipped++
			sanctionsProcessed.WithLabelValues("skipped").Inc()
			continue
		}

		if err := s.platform.Unban(ctx, p.GuildID, p.UserID, unbanReason); err != nil {
			logger.Debug(fmt.Sprintf("Unban de %s en %s falló: %v", p.UserID, p.GuildID, err), "Scheduler")
		}
		s.delete(ctx, p)
		report.Reversed++
		sanctionsProcessed.WithLabelValues("reversed").Inc()
	}
	return report
}

func (s *Sweeper) resolve(ctx context.Context, p *models.PendingSanction) error {
	if _, err := s.platform.Guild(ctx, p.GuildID); err != nil {
		return fmt.Errorf("guild %s: %w", p.GuildID, err)
	}
	if _, err := s.platform.User(ctx, p.UserID); err != nil {
		return fmt.Errorf("user %s: %w", p.UserID, err)
	}
	return nil
}

func (s *Sweeper) delete(ctx context.Context, p *models.PendingSanction) {
	if err := s.store.DeletePendingSanctionByID(ctx, p.ID); err != nil {
		logger.Error(fmt.Sprintf("No se pudo borrar la sanción %d: %v", p.ID, err), "Scheduler")
	}
}
