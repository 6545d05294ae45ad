// Package moderation implements the warn points ledger, threshold
// escalation and the manual punishments that share its audit trail.
package moderation

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// Store persists ledgers, offences, thresholds, suggestions and pending
// sanctions. Missing documents are reported with database.ErrNotFound and
// unique index violations with database.ErrDuplicate.
type Store interface {
	InsertWarn(ctx context.Context, w *models.WarnEntry) error
	WarnsFor(ctx context.Context, guildID, userID string) ([]*models.WarnEntry, error)
	GetWarn(ctx context.Context, guildID string, id int64) (*models.WarnEntry, error)
	DeleteWarn(ctx context.Context, guildID string, id int64) error

	InsertOffence(ctx context.Context, o *models.OffenceEntry) error
	OffencesFor(ctx context.Context, guildID, userID string) ([]*models.OffenceEntry, error)
	HasActiveThresholdOffence(ctx context.Context, guildID, userID string, points int) (bool, error)
	PardonThresholdOffences(ctx context.Context, guildID, userID string, points []int) (int64, error)

	Thresholds(ctx context.Context, guildID string) ([]*models.Threshold, error)
	InsertThreshold(ctx context.Context, t *models.Threshold) error
	DeleteThresholds(ctx context.Context, guildID string, ids []int64) (int64, error)

	Autocompletes(ctx context.Context, guildID string) ([]*models.AutocompleteSuggestion, error)
	InsertAutocomplete(ctx context.Context, a *models.AutocompleteSuggestion) error
	DeleteAutocompletes(ctx context.Context, guildID string, ids []int64) (int64, error)

	ReplacePendingSanction(ctx context.Context, p *models.PendingSanction) error
	DeletePendingSanction(ctx context.Context, guildID, userID string) (int64, error)
}

const lockStripes = 64

// Engine runs moderation operations. Operations on the same guild member are
// serialised within the process.
type Engine struct {
	store          Store
	platform       Platform
	events         EventSink
	now            func() time.Time
	confirmTimeout time.Duration
	locks          [lockStripes]sync.Mutex
}

// Option configures an Engine
type Option func(*Engine)

// WithEventSink publishes an Event after every successful action
func WithEventSink(sink EventSink) Option {
	return func(e *Engine) { e.events = sink }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithConfirmTimeout bounds how long ExecuteBreach waits for approval
func WithConfirmTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.confirmTimeout = d
		}
	}
}

// NewEngine creates an Engine
func NewEngine(store Store, platform Platform, opts ...Option) *Engine {
	e := &Engine{
		store:          store,
		platform:       platform,
		now:            time.Now,
		confirmTimeout: 180 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// lock acquires the stripe of (guild, user) and returns its unlock func
func (e *Engine) lock(guildID, userID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(guildID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(userID))
	mu := &e.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func (e *Engine) publish(ctx context.Context, ev Event) {
	if e.events == nil {
		return
	}
	ev.At = e.now()
	if err := e.events.PublishEvent(ctx, ev); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo publicar el evento %s: %v", ev.Type, err), "Moderation")
	}
}

func (e *Engine) guildName(ctx context.Context, guildID string) string {
	g, err := e.platform.Guild(ctx, guildID)
	if err != nil || g == nil {
		return guildID
	}
	return g.Name
}

func (e *Engine) sendDM(ctx context.Context, userID string, n Notice) bool {
	if err := e.platform.SendDM(ctx, userID, n); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo enviar DM a %s: %v", userID, err), "Moderation")
		return false
	}
	return true
}
