package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/database"
)

type call struct {
	Action string
	UserID string
	Reason string
}

type fakePlatform struct {
	mu       sync.Mutex
	members  map[string]bool
	dmFails  bool
	failWith error
	calls    []call
	notices  []Notice
}

func newFakePlatform(members ...string) *fakePlatform {
	f := &fakePlatform{members: make(map[string]bool)}
	for _, m := range members {
		f.members[m] = true
	}
	return f
}

func (f *fakePlatform) record(action, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.calls = append(f.calls, call{Action: action, UserID: userID, Reason: reason})
	return nil
}

func (f *fakePlatform) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Action)
	}
	return out
}

func (f *fakePlatform) Guild(_ context.Context, guildID string) (*Identity, error) {
	return &Identity{ID: guildID, Name: "Servidor de pruebas"}, nil
}

func (f *fakePlatform) User(_ context.Context, userID string) (*Identity, error) {
	return &Identity{ID: userID, Name: "usuario"}, nil
}

func (f *fakePlatform) IsMember(_ context.Context, _, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[userID], nil
}

func (f *fakePlatform) SendDM(_ context.Context, userID string, n Notice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dmFails {
		return context.DeadlineExceeded
	}
	f.notices = append(f.notices, n)
	f.calls = append(f.calls, call{Action: "dm", UserID: userID})
	return nil
}

func (f *fakePlatform) Kick(_ context.Context, _, userID, reason string) error {
	return f.record("kick", userID, reason)
}

func (f *fakePlatform) Timeout(_ context.Context, _, userID string, until *time.Time, reason string) error {
	if until == nil {
		return f.record("untimeout", userID, reason)
	}
	return f.record("timeout", userID, reason)
}

func (f *fakePlatform) Ban(_ context.Context, _, userID, reason string, _ int) error {
	return f.record("ban", userID, reason)
}

func (f *fakePlatform) Unban(_ context.Context, _, userID, reason string) error {
	return f.record("unban", userID, reason)
}

type fakeConfirmer struct {
	answer bool
	wait   bool
	asked  int
}

func (c *fakeConfirmer) Confirm(ctx context.Context, _ string) (bool, error) {
	c.asked++
	if c.wait {
		<-ctx.Done()
		return false, ctx.Err()
	}
	return c.answer, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) PublishEvent(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestEngine(platform Platform, opts ...Option) (*Engine, *database.MemoryStore) {
	store := database.NewMemoryStore()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewEngine(store, platform, opts...), store
}

func intPtr(v int) *int { return &v }
