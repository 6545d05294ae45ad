package markov

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/PancyStudios/PancyModGo/pkg/database"
	anticrash "github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"golang.org/x/sync/semaphore"
)

var (
	ErrNotConfigured = errors.New("markov channel not configured")
	ErrEmptyCorpus   = errors.New("markov corpus is empty")
	errWorkerPanic   = errors.New("markov worker panicked")
)

// Store persists trigram corpora. Lookups of unknown guilds return
// database.ErrNotFound.
type Store interface {
	CorpusChannel(ctx context.Context, guildID string) (string, error)
	Corpus(ctx context.Context, guildID string) (*models.TrigramStore, error)
	SetCorpusChannel(ctx context.Context, guildID, channelID string) error
	AppendTrigrams(ctx context.Context, guildID string, trigrams []string) error
}

// Generator ingests messages and produces sentences. Tokenising and
// sampling run on a bounded pool of worker goroutines.
type Generator struct {
	store   Store
	workers *semaphore.Weighted
	newRand func() *rand.Rand
}

// Option configures a Generator
type Option func(*Generator)

// WithRand overrides the source of randomness, one *rand.Rand per call.
func WithRand(fn func() *rand.Rand) Option {
	return func(g *Generator) { g.newRand = fn }
}

// NewGenerator creates a Generator with the given number of worker slots
func NewGenerator(store Store, workers int, opts ...Option) *Generator {
	if workers < 1 {
		workers = 1
	}
	g := &Generator{
		store:   store,
		workers: semaphore.NewWeighted(int64(workers)),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Setup makes channelID the source channel of the guild's corpus
func (g *Generator) Setup(ctx context.Context, guildID, channelID string) error {
	return g.store.SetCorpusChannel(ctx, guildID, channelID)
}

// IngestMessage adds the trigrams of text to the guild corpus when the
// message comes from the configured channel. It returns how many trigrams
// were appended.
func (g *Generator) IngestMessage(ctx context.Context, guildID, channelID, text string) (int, error) {
	source, err := g.store.CorpusChannel(ctx, guildID)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading markov channel: %w", err)
	}
	if source != channelID {
		return 0, nil
	}

	var trigrams []string
	if err := g.offload(ctx, func() error {
		trigrams = Trigrams(text)
		return nil
	}); err != nil {
		return 0, err
	}
	if len(trigrams) == 0 {
		return 0, nil
	}

	if err := g.store.AppendTrigrams(ctx, guildID, trigrams); err != nil {
		return 0, fmt.Errorf("appending trigrams: %w", err)
	}
	trigramsIngested.Add(float64(len(trigrams)))
	return len(trigrams), nil
}

// GenerateSentence samples a sentence from the guild corpus
func (g *Generator) GenerateSentence(ctx context.Context, guildID string) (string, error) {
	corpus, err := g.store.Corpus(ctx, guildID)
	if errors.Is(err, database.ErrNotFound) {
		sentencesGenerated.WithLabelValues("not_configured").Inc()
		return "", ErrNotConfigured
	}
	if err != nil {
		return "", fmt.Errorf("loading markov corpus: %w", err)
	}
	if len(corpus.Trigrams) == 0 {
		sentencesGenerated.WithLabelValues("empty").Inc()
		return "", ErrEmptyCorpus
	}

	var sentence string
	err = g.offload(ctx, func() error {
		var genErr error
		sentence, genErr = GenerateSentence(corpus.Trigrams, g.newRand())
		return genErr
	})
	if err != nil {
		sentencesGenerated.WithLabelValues("error").Inc()
		return "", err
	}
	sentencesGenerated.WithLabelValues("ok").Inc()
	return sentence, nil
}

// offload runs fn on a worker slot and waits for it or for ctx.
func (g *Generator) offload(ctx context.Context, fn func() error) error {
	if err := g.workers.Acquire(ctx, 1); err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() {
		defer g.workers.Release(1)
		defer func() {
			if r := recover(); r != nil {
				if h := anticrash.Get(); h != nil {
					h.HandlePanic(r)
				}
				errc <- errWorkerPanic
			}
		}()
		errc <- fn()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
