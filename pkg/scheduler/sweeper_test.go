package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	mu        sync.Mutex
	lookupErr map[string]error
	unbanErr  error
	unbans    []string
}

func (f *fakePlatform) Guild(_ context.Context, guildID string) (*moderation.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lookupErr[guildID]; err != nil {
		return nil, err
	}
	return &moderation.Identity{ID: guildID}, nil
}

func (f *fakePlatform) User(_ context.Context, userID string) (*moderation.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lookupErr[userID]; err != nil {
		return nil, err
	}
	return &moderation.Identity{ID: userID}, nil
}

func (f *fakePlatform) Unban(_ context.Context, guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unbans = append(f.unbans, guildID+"/"+userID+"/"+reason)
	return f.unbanErr
}

func (f *fakePlatform) unbanCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.unbans)
}

type failingStore struct{}

func (failingStore) DueSanctions(context.Context, time.Time) ([]*models.PendingSanction, error) {
	return nil, database.ErrNotConnected
}

func (failingStore) DeletePendingSanctionByID(context.Context, int64) error {
	return database.ErrNotConnected
}

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func addSanction(t *testing.T, store *database.MemoryStore, guildID, userID string, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, store.ReplacePendingSanction(context.Background(), &models.PendingSanction{
		GuildID: guildID, UserID: userID, ExpiresAt: expiresAt,
	}))
}

func remaining(t *testing.T, store *database.MemoryStore) int {
	t.Helper()
	due, err := store.DueSanctions(context.Background(), now.Add(10*365*24*time.Hour))
	require.NoError(t, err)
	return len(due)
}

func TestRunCycleReversesExpiredSanction(t *testing.T) {
	store := database.NewMemoryStore()
	platform := &fakePlatform{}
	addSanction(t, store, "g", "u", now.Add(-time.Minute))
	addSanction(t, store, "g", "later", now.Add(time.Hour))

	s := New(store, platform, WithClock(func() time.Time { return now }))
	report := s.RunCycle(context.Background())

	assert.Equal(t, CycleReport{Due: 1, Reversed: 1}, report)
	assert.Equal(t, []string{"g/u/Timer expired."}, platform.unbans)
	assert.Equal(t, 1, remaining(t, store))
}

func TestRunCycleDeletesEvenWhenUnbanFails(t *testing.T) {
	store := database.NewMemoryStore()
	platform := &fakePlatform{unbanErr: errors.New("unknown ban")}
	addSanction(t, store, "g", "u", now)

	report := New(store, platform, WithClock(func() time.Time { return now })).RunCycle(context.Background())

	assert.Equal(t, 1, report.Reversed)
	assert.Equal(t, 1, platform.unbanCount())
	assert.Zero(t, remaining(t, store))
}

func TestRunCycleSkipsUnresolvableTargets(t *testing.T) {
	store := database.NewMemoryStore()
	platform := &fakePlatform{lookupErr: map[string]error{
		"gone":  moderation.ErrUnknownTarget,
		"flaky": errors.New("503 Service Unavailable"),
	}}
	addSanction(t, store, "gone", "u1", now.Add(-time.Hour))
	addSanction(t, store, "g", "flaky", now.Add(-90*24*time.Hour))

	s := New(store, platform, WithClock(func() time.Time { return now }))
	report := s.RunCycle(context.Background())

	assert.Equal(t, CycleReport{Due: 2, Skipped: 2}, report)
	assert.Zero(t, platform.unbanCount())
	assert.Equal(t, 2, remaining(t, store))
}

func TestRunCycleDropsStaleUnresolvableSanctions(t *testing.T) {
	store := database.NewMemoryStore()
	platform := &fakePlatform{lookupErr: map[string]error{"gone": moderation.ErrUnknownTarget}}
	addSanction(t, store, "gone", "u", now.Add(-31*24*time.Hour))

	s := New(store, platform, WithClock(func() time.Time { return now }), WithStaleAfter(30*24*time.Hour))
	report := s.RunCycle(context.Background())

	assert.Equal(t, CycleReport{Due: 1, Dropped: 1}, report)
	assert.Zero(t, platform.unbanCount())
	assert.Zero(t, remaining(t, store))
}

func TestRunCycleStorageFailure(t *testing.T) {
	report := New(failingStore{}, &fakePlatform{}).RunCycle(context.Background())
	assert.Equal(t, CycleReport{}, report)
}

func TestSweeperWaitsForReady(t *testing.T) {
	store := database.NewMemoryStore()
	platform := &fakePlatform{}
	addSanction(t, store, "g", "u", now.Add(-time.Minute))

	ready := make(chan struct{})
	s := New(store, platform,
		WithClock(func() time.Time { return now }),
		WithInterval(time.Hour),
		WithReady(ready),
	)
	s.Start(context.Background())
	defer s.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, platform.unbanCount(), "no cycle before ready")

	close(ready)
	assert.Eventually(t, func() bool { return platform.unbanCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSweeperStopIsIdempotent(t *testing.T) {
	s := New(database.NewMemoryStore(), &fakePlatform{}, WithInterval(time.Hour))
	s.Start(context.Background())
	s.Start(context.Background())
	s.Stop()
	s.Stop()
}

func TestSweeperStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(database.NewMemoryStore(), &fakePlatform{}, WithInterval(time.Hour), WithReady(make(chan struct{})))
	s.Start(ctx)
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
