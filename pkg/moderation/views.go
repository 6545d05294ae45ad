package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// SetupView is the guild's warn configuration as shown by /setup view
type SetupView struct {
	Thresholds  []*models.Threshold
	Suggestions []*models.AutocompleteSuggestion
	// PermanentBanAt is the points of the permanent ban threshold, if any
	PermanentBanAt *int
}

// SetupView builds a fresh SetupView from storage
func (e *Engine) SetupView(ctx context.Context, guildID string) (*SetupView, error) {
	const op = "SetupView"
	thresholds, err := e.store.Thresholds(ctx, guildID)
	if err != nil {
		return nil, transient(op, fmt.Errorf("loading thresholds: %w", err))
	}
	suggestions, err := e.store.Autocompletes(ctx, guildID)
	if err != nil {
		return nil, transient(op, fmt.Errorf("loading autocompletes: %w", err))
	}

	view := &SetupView{Thresholds: thresholds, Suggestions: suggestions}
	for _, t := range thresholds {
		if t.Punishment.Kind == models.PunishmentBan {
			p := t.Points
			view.PermanentBanAt = &p
		}
	}
	return view, nil
}

// PurgeCandidate is a message considered by SelectPurgeTargets
type PurgeCandidate struct {
	ID        string
	AuthorID  string
	CreatedAt time.Time
}

// SelectPurgeTargets scans candidates, newest first, and returns up to limit
// message ids written by authorID (or by anyone when authorID is empty).
// Messages older than cutoff are skipped.
func SelectPurgeTargets(candidates []PurgeCandidate, authorID string, limit int, cutoff time.Time) []string {
	if limit <= 0 {
		return nil
	}
	picked := make([]string, 0, limit)
	for _, c := range candidates {
		if len(picked) == limit {
			break
		}
		if c.CreatedAt.Before(cutoff) {
			continue
		}
		if authorID != "" && c.AuthorID != authorID {
			continue
		}
		picked = append(picked, c.ID)
	}
	return picked
}
