package database

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// MemoryStore is an in-process store with the same behaviour as MongoStore.
// It is used by tests and by STORAGE=memory for local runs.
type MemoryStore struct {
	mu            sync.Mutex
	seq           map[string]int64
	warns         []models.WarnEntry
	offences      []models.OffenceEntry
	thresholds    []models.Threshold
	autocompletes []models.AutocompleteSuggestion
	sanctions     []models.PendingSanction
	corpora       map[string]*models.TrigramStore
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seq:     make(map[string]int64),
		corpora: make(map[string]*models.TrigramStore),
	}
}

// GetStatus reports the store as always online
func (m *MemoryStore) GetStatus() (string, bool) {
	return "🟢 | En memoria", true
}

func (m *MemoryStore) next(collection string) int64 {
	m.seq[collection]++
	return m.seq[collection]
}

func (m *MemoryStore) InsertWarn(_ context.Context, w *models.WarnEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w.ID = m.next(CollectionWarns)
	m.warns = append(m.warns, *w)
	return nil
}

func (m *MemoryStore) WarnsFor(_ context.Context, guildID, userID string) ([]*models.WarnEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.WarnEntry, 0)
	for _, w := range m.warns {
		if w.GuildID == guildID && w.UserID == userID {
			w := w
			out = append(out, &w)
		}
	}
	return out, nil
}

func (m *MemoryStore) GetWarn(_ context.Context, guildID string, id int64) (*models.WarnEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.warns {
		if w.ID == id && w.GuildID == guildID {
			return &w, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) DeleteWarn(_ context.Context, guildID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.warns, func(w models.WarnEntry) bool {
		return w.ID == id && w.GuildID == guildID
	})
	if i < 0 {
		return ErrNotFound
	}
	m.warns = slices.Delete(m.warns, i, i+1)
	return nil
}

func (m *MemoryStore) InsertOffence(_ context.Context, o *models.OffenceEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = m.next(CollectionOffences)
	stored := *o
	if o.ThresholdPoints != nil {
		p := *o.ThresholdPoints
		stored.ThresholdPoints = &p
	}
	m.offences = append(m.offences, stored)
	return nil
}

func (m *MemoryStore) OffencesFor(_ context.Context, guildID, userID string) ([]*models.OffenceEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.OffenceEntry, 0)
	for _, o := range m.offences {
		if o.GuildID == guildID && o.UserID == userID {
			o := o
			out = append(out, &o)
		}
	}
	return out, nil
}

func (m *MemoryStore) HasActiveThresholdOffence(_ context.Context, guildID, userID string, points int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.offences {
		if o.GuildID == guildID && o.UserID == userID && !o.Pardoned &&
			o.ThresholdPoints != nil && *o.ThresholdPoints == points {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) PardonThresholdOffences(_ context.Context, guildID, userID string, points []int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.offences {
		o := &m.offences[i]
		if o.GuildID != guildID || o.UserID != userID || o.Pardoned || o.ThresholdPoints == nil {
			continue
		}
		if slices.Contains(points, *o.ThresholdPoints) {
			o.Pardoned = true
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Thresholds(_ context.Context, guildID string) ([]*models.Threshold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Threshold, 0)
	for _, t := range m.thresholds {
		if t.GuildID == guildID {
			t := t
			out = append(out, &t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points < out[j].Points })
	return out, nil
}

func (m *MemoryStore) InsertThreshold(_ context.Context, t *models.Threshold) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.thresholds {
		if existing.GuildID == t.GuildID && existing.Points == t.Points {
			return ErrDuplicate
		}
	}
	t.ID = m.next(CollectionThresholds)
	m.thresholds = append(m.thresholds, *t)
	return nil
}

func (m *MemoryStore) DeleteThresholds(_ context.Context, guildID string, ids []int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.thresholds)
	m.thresholds = slices.DeleteFunc(m.thresholds, func(t models.Threshold) bool {
		return t.GuildID == guildID && slices.Contains(ids, t.ID)
	})
	return int64(before - len(m.thresholds)), nil
}

func (m *MemoryStore) Autocompletes(_ context.Context, guildID string) ([]*models.AutocompleteSuggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.AutocompleteSuggestion, 0)
	for _, a := range m.autocompletes {
		if a.GuildID == guildID {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

func (m *MemoryStore) InsertAutocomplete(_ context.Context, a *models.AutocompleteSuggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.autocompletes {
		if existing.GuildID == a.GuildID && existing.Reason == a.Reason {
			return ErrDuplicate
		}
	}
	a.ID = m.next(CollectionAutocompletes)
	m.autocompletes = append(m.autocompletes, *a)
	return nil
}

func (m *MemoryStore) DeleteAutocompletes(_ context.Context, guildID string, ids []int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.autocompletes)
	m.autocompletes = slices.DeleteFunc(m.autocompletes, func(a models.AutocompleteSuggestion) bool {
		return a.GuildID == guildID && slices.Contains(ids, a.ID)
	})
	return int64(before - len(m.autocompletes)), nil
}

func (m *MemoryStore) ReplacePendingSanction(_ context.Context, p *models.PendingSanction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sanctions = slices.DeleteFunc(m.sanctions, func(s models.PendingSanction) bool {
		return s.GuildID == p.GuildID && s.UserID == p.UserID
	})
	p.ID = m.next(CollectionPendingSanctions)
	m.sanctions = append(m.sanctions, *p)
	return nil
}

func (m *MemoryStore) DeletePendingSanction(_ context.Context, guildID, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.sanctions)
	m.sanctions = slices.DeleteFunc(m.sanctions, func(s models.PendingSanction) bool {
		return s.GuildID == guildID && s.UserID == userID
	})
	return int64(before - len(m.sanctions)), nil
}

func (m *MemoryStore) DueSanctions(_ context.Context, now time.Time) ([]*models.PendingSanction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.PendingSanction, 0)
	for _, s := range m.sanctions {
		if !s.ExpiresAt.After(now) {
			s := s
			out = append(out, &s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

func (m *MemoryStore) DeletePendingSanctionByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sanctions = slices.DeleteFunc(m.sanctions, func(s models.PendingSanction) bool {
		return s.ID == id
	})
	return nil
}

func (m *MemoryStore) CorpusChannel(_ context.Context, guildID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.corpora[guildID]
	if !ok {
		return "", ErrNotFound
	}
	return c.ChannelID, nil
}

func (m *MemoryStore) Corpus(_ context.Context, guildID string) (*models.TrigramStore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.corpora[guildID]
	if !ok {
		return nil, ErrNotFound
	}
	return &models.TrigramStore{
		GuildID:   c.GuildID,
		ChannelID: c.ChannelID,
		Trigrams:  slices.Clone(c.Trigrams),
	}, nil
}

func (m *MemoryStore) SetCorpusChannel(_ context.Context, guildID, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.corpora[guildID]; ok {
		c.ChannelID = channelID
		return nil
	}
	m.corpora[guildID] = &models.TrigramStore{GuildID: guildID, ChannelID: channelID, Trigrams: []string{}}
	return nil
}

func (m *MemoryStore) AppendTrigrams(_ context.Context, guildID string, trigrams []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.corpora[guildID]
	if !ok {
		return ErrNotFound
	}
	c.Trigrams = append(c.Trigrams, trigrams...)
	return nil
}
