package moderation

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

const (
	maxPoints       = 999
	defaultReason   = "Sin razón especificada"
	breachReasonFmt = "Exceeded warn limit - %d points"
)

// RunningTotal folds entries in creation order, resetting the sum to zero
// whenever it goes negative.
func RunningTotal(entries []*models.WarnEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Points
		if total < 0 {
			total = 0
		}
	}
	return total
}

func validPoints(p int) bool {
	return p != 0 && p >= -maxPoints && p <= maxPoints
}

func reasonOrDefault(reason string) string {
	if r := strings.TrimSpace(reason); r != "" {
		return r
	}
	return defaultReason
}

// RecordPoints appends a signed ledger entry and returns the new total
func (e *Engine) RecordPoints(ctx context.Context, guildID, userID string, delta int, reason, issuerID string) (int, *models.WarnEntry, error) {
	defer e.lock(guildID, userID)()
	return e.recordPoints(ctx, guildID, userID, delta, reason, issuerID)
}

func (e *Engine) recordPoints(ctx context.Context, guildID, userID string, delta int, reason, issuerID string) (int, *models.WarnEntry, error) {
	const op = "RecordPoints"
	if !validPoints(delta) {
		return 0, nil, validation(op, ErrInvalidPoints)
	}

	entry := &models.WarnEntry{
		GuildID:   guildID,
		UserID:    userID,
		Body:      reasonOrDefault(reason),
		Points:    delta,
		CreatedBy: issuerID,
		CreatedAt: e.now(),
	}
	if err := e.store.InsertWarn(ctx, entry); err != nil {
		return 0, nil, transient(op, fmt.Errorf("inserting warn: %w", err))
	}

	total, err := e.total(ctx, guildID, userID)
	if err != nil {
		return 0, nil, err
	}
	if delta > 0 {
		warnsRecorded.WithLabelValues("warn").Inc()
	} else {
		warnsRecorded.WithLabelValues("pardon").Inc()
	}
	return total, entry, nil
}

func (e *Engine) total(ctx context.Context, guildID, userID string) (int, error) {
	entries, err := e.store.WarnsFor(ctx, guildID, userID)
	if err != nil {
		return 0, transient("RunningTotal", fmt.Errorf("loading warns: %w", err))
	}
	return RunningTotal(entries), nil
}
