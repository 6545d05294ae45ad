package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/timeparse"
)

const (
	maxThresholds     = 10
	maxAutocompletes  = 25
	maxReasonLength   = 88
	muteCapThreshold  = 27 * timeparse.Day
	maxSuggestResults = 25
)

// ConfigureThreshold adds an escalation threshold to the guild.
func (e *Engine) ConfigureThreshold(ctx context.Context, guildID string, points int, kind models.PunishmentKind, duration time.Duration) (*models.Threshold, error) {
	const op = "ConfigureThreshold"
	if points <= 0 || points > maxPoints {
		return nil, validation(op, ErrInvalidPoints)
	}
	if !kind.Valid() || duration < 0 {
		return nil, validation(op, ErrInvalidPunishment)
	}

	p := models.Punishment{Kind: kind, Duration: duration}
	switch kind {
	case models.PunishmentMute:
		if duration == 0 || duration >= muteCapThreshold {
			p.Duration = maxMute
		}
	case models.PunishmentKick:
		p.Duration = 0
	case models.PunishmentBan, models.PunishmentTimedBan:
		if duration > 0 {
			p.Kind = models.PunishmentTimedBan
		} else {
			p.Kind = models.PunishmentBan
		}
	}

	existing, err := e.store.Thresholds(ctx, guildID)
	if err != nil {
		return nil, transient(op, fmt.Errorf("loading thresholds: %w", err))
	}
	if len(existing) >= maxThresholds {
		return nil, validation(op, ErrThresholdLimit)
	}
	for _, t := range existing {
		if t.Points == points {
			return nil, validation(op, ErrDuplicateThreshold)
		}
		if t.Punishment.Kind != models.PunishmentBan {
			continue
		}
		if p.Kind == models.PunishmentBan || points >= t.Points {
			return nil, validation(op, ErrPermanentBanExists)
		}
	}

	t := &models.Threshold{GuildID: guildID, Points: points, Punishment: p}
	if err := e.store.InsertThreshold(ctx, t); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, validation(op, ErrDuplicateThreshold)
		}
		return nil, transient(op, fmt.Errorf("inserting threshold: %w", err))
	}
	return t, nil
}

// RemoveThreshold deletes thresholds by id
func (e *Engine) RemoveThreshold(ctx context.Context, guildID string, ids ...int64) (int64, error) {
	const op = "RemoveThreshold"
	n, err := e.store.DeleteThresholds(ctx, guildID, ids)
	if err != nil {
		return 0, transient(op, err)
	}
	if n == 0 {
		return 0, notFound(op, ErrThresholdNotFound)
	}
	return n, nil
}

// ConfigureAutocompleteSuggestion adds a canned warn reason
func (e *Engine) ConfigureAutocompleteSuggestion(ctx context.Context, guildID string, points int, reason string) (*models.AutocompleteSuggestion, error) {
	const op = "ConfigureAutocompleteSuggestion"
	if points <= 0 || points > maxPoints {
		return nil, validation(op, ErrInvalidPoints)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" || utf8.RuneCountInString(reason) > maxReasonLength {
		return nil, validation(op, ErrInvalidReason)
	}

	existing, err := e.store.Autocompletes(ctx, guildID)
	if err != nil {
		return nil, transient(op, fmt.Errorf("loading autocompletes: %w", err))
	}
	if len(existing) >= maxAutocompletes {
		return nil, validation(op, ErrAutocompleteLimit)
	}
	for _, a := range existing {
		if strings.EqualFold(a.Reason, reason) {
			return nil, validation(op, ErrDuplicateAutocomplete)
		}
	}

	a := &models.AutocompleteSuggestion{GuildID: guildID, Points: points, Reason: reason}
	if err := e.store.InsertAutocomplete(ctx, a); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, validation(op, ErrDuplicateAutocomplete)
		}
		return nil, transient(op, fmt.Errorf("inserting autocomplete: %w", err))
	}
	return a, nil
}

// RemoveAutocompleteSuggestion deletes suggestions by id
func (e *Engine) RemoveAutocompleteSuggestion(ctx context.Context, guildID string, ids ...int64) (int64, error) {
	const op = "RemoveAutocompleteSuggestion"
	n, err := e.store.DeleteAutocompletes(ctx, guildID, ids)
	if err != nil {
		return 0, transient(op, err)
	}
	if n == 0 {
		return 0, notFound(op, ErrAutocompleteNotFound)
	}
	return n, nil
}

// SuggestReasons returns the suggestions whose reason contains typed
func (e *Engine) SuggestReasons(ctx context.Context, guildID, typed string) ([]*models.AutocompleteSuggestion, error) {
	all, err := e.store.Autocompletes(ctx, guildID)
	if err != nil {
		return nil, transient("SuggestReasons", err)
	}
	typed = strings.ToLower(strings.TrimSpace(typed))
	out := make([]*models.AutocompleteSuggestion, 0, len(all))
	for _, a := range all {
		if typed == "" || strings.Contains(strings.ToLower(a.Reason), typed) {
			out = append(out, a)
		}
		if len(out) == maxSuggestResults {
			break
		}
	}
	return out, nil
}
