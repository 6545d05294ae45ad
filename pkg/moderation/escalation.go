package moderation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// EvaluateEscalation returns the highest threshold reached by the user's
// total, or nil when none is reached or it was already punished.
func (e *Engine) EvaluateEscalation(ctx context.Context, guildID, userID string) (*models.Threshold, error) {
	defer e.lock(guildID, userID)()
	total, err := e.total(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	return e.evaluate(ctx, guildID, userID, total)
}

func (e *Engine) evaluate(ctx context.Context, guildID, userID string, total int) (*models.Threshold, error) {
	const op = "EvaluateEscalation"
	thresholds, err := e.store.Thresholds(ctx, guildID)
	if err != nil {
		return nil, transient(op, fmt.Errorf("loading thresholds: %w", err))
	}

	var reached *models.Threshold
	for _, t := range thresholds {
		if t.Points <= total && (reached == nil || t.Points > reached.Points) {
			reached = t
		}
	}
	if reached == nil {
		return nil, nil
	}

	consumed, err := e.store.HasActiveThresholdOffence(ctx, guildID, userID, reached.Points)
	if err != nil {
		return nil, transient(op, fmt.Errorf("checking offences: %w", err))
	}
	if consumed {
		return nil, nil
	}
	breachesDetected.Inc()
	return reached, nil
}

// ApplyPardonReconciliation marks as pardoned the active offences caused by
// configured thresholds at or above newTotal. It never reverts the punishment itself.
func (e *Engine) ApplyPardonReconciliation(ctx context.Context, guildID, userID string, newTotal int) (int64, error) {
	defer e.lock(guildID, userID)()
	return e.reconcile(ctx, guildID, userID, newTotal)
}

func (e *Engine) reconcile(ctx context.Context, guildID, userID string, newTotal int) (int64, error) {
	const op = "ApplyPardonReconciliation"
	thresholds, err := e.store.Thresholds(ctx, guildID)
	if err != nil {
		return 0, transient(op, fmt.Errorf("loading thresholds: %w", err))
	}
	var above []int
	for _, t := range thresholds {
		if t.Points >= newTotal {
			above = append(above, t.Points)
		}
	}
	if len(above) == 0 {
		return 0, nil
	}

	offences, err := e.store.OffencesFor(ctx, guildID, userID)
	if err != nil {
		return 0, transient(op, fmt.Errorf("loading offences: %w", err))
	}

	// offences of removed thresholds keep their state
	var points []int
	for _, o := range offences {
		if o.Pardoned || o.ThresholdPoints == nil {
			continue
		}
		if p := *o.ThresholdPoints; slices.Contains(above, p) && !slices.Contains(points, p) {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return 0, nil
	}

	n, err := e.store.PardonThresholdOffences(ctx, guildID, userID, points)
	if err != nil {
		return 0, transient(op, fmt.Errorf("pardoning offences: %w", err))
	}
	offencesPardoned.Add(float64(n))
	return n, nil
}

// ExecuteBreach asks confirmer to approve the threshold's punishment and
// applies it. It returns nil without error when the breach is dropped: the
// member left and the punishment needs membership, approval was declined or
// timed out, or the threshold was punished while waiting for approval.
func (e *Engine) ExecuteBreach(ctx context.Context, guildID, userID, issuerID string, breach *models.Threshold, confirmer Confirmer) (*PunishResult, error) {
	const op = "ExecuteBreach"

	if breach.Punishment.RequiresMembership() {
		member, err := e.platform.IsMember(ctx, guildID, userID)
		if err != nil {
			return nil, platformError(op, err)
		}
		if !member {
			breachOutcomes.WithLabelValues("skipped").Inc()
			return nil, nil
		}
	}

	prompt := fmt.Sprintf("El usuario ha superado el límite de %d puntos para el castigo: %s. ¿Lo aplico? (recomendado)",
		breach.Points, DescribePunishment(breach.Punishment))

	confirmCtx, cancel := context.WithTimeout(ctx, e.confirmTimeout)
	approved, err := confirmer.Confirm(confirmCtx, prompt)
	cancel()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		breachOutcomes.WithLabelValues("timeout").Inc()
		return nil, nil
	case err != nil:
		return nil, external(op, fmt.Errorf("confirmation: %w", err))
	case !approved:
		breachOutcomes.WithLabelValues("declined").Inc()
		return nil, nil
	}

	// another breach of the same threshold may have been approved meanwhile
	unconsumed := func(ctx context.Context) (bool, error) {
		consumed, err := e.store.HasActiveThresholdOffence(ctx, guildID, userID, breach.Points)
		if err != nil {
			return false, transient(op, fmt.Errorf("checking offences: %w", err))
		}
		return !consumed, nil
	}

	points := breach.Points
	res, err := e.punish(ctx, PunishRequest{
		GuildID:         guildID,
		UserID:          userID,
		ActorID:         issuerID,
		Punishment:      breach.Punishment,
		Reason:          fmt.Sprintf(breachReasonFmt, points),
		ThresholdPoints: &points,
	}, unconsumed)
	if err != nil {
		return nil, err
	}
	if res == nil {
		breachOutcomes.WithLabelValues("consumed").Inc()
		return nil, nil
	}
	breachOutcomes.WithLabelValues("executed").Inc()
	return res, nil
}

// WarnRequest describes a warn. A nil Points takes the points of the
// autocomplete suggestion matching Reason, or 1.
type WarnRequest struct {
	GuildID string
	UserID  string
	ActorID string
	Points  *int
	Reason  string
}

// WarnResult is the outcome of Warn
type WarnResult struct {
	Entry  *models.WarnEntry
	Total  int
	Breach *models.Threshold
	// BanAt is the points of the top threshold when it is a ban
	BanAt  *int
	DMSent bool
}

// Warn adds points to a member and reports the threshold they reached, if
// any. The breach is not executed; callers pass it to ExecuteBreach.
func (e *Engine) Warn(ctx context.Context, req WarnRequest) (*WarnResult, error) {
	const op = "Warn"
	reason := reasonOrDefault(req.Reason)

	points := 1
	if req.Points != nil {
		points = *req.Points
	} else {
		suggestions, err := e.store.Autocompletes(ctx, req.GuildID)
		if err != nil {
			return nil, transient(op, fmt.Errorf("loading autocompletes: %w", err))
		}
		for _, s := range suggestions {
			if strings.EqualFold(s.Reason, reason) {
				points = s.Points
				break
			}
		}
	}
	if !validPoints(points) {
		return nil, validation(op, ErrInvalidPoints)
	}
	if points < 0 {
		return nil, validation(op, ErrUsePardon)
	}

	unlock := e.lock(req.GuildID, req.UserID)
	total, entry, err := e.recordPoints(ctx, req.GuildID, req.UserID, points, reason, req.ActorID)
	if err != nil {
		unlock()
		return nil, err
	}
	breach, err := e.evaluate(ctx, req.GuildID, req.UserID, total)
	unlock()
	if err != nil {
		return nil, err
	}

	res := &WarnResult{Entry: entry, Total: total, Breach: breach}
	if thresholds, err := e.store.Thresholds(ctx, req.GuildID); err == nil && len(thresholds) > 0 {
		if top := thresholds[len(thresholds)-1]; top.Punishment.IsBan() {
			p := top.Points
			res.BanAt = &p
		}
	}

	res.DMSent = e.sendDM(ctx, req.UserID, Notice{
		Kind:      NoticeWarn,
		GuildName: e.guildName(ctx, req.GuildID),
		Reason:    reason,
		Points:    points,
		BanAt:     res.BanAt,
	})

	e.publish(ctx, Event{
		Type: EventWarn, GuildID: req.GuildID, UserID: req.UserID, ActorID: req.ActorID,
		Points: points, Total: total, Reason: reason,
	})
	return res, nil
}

// PardonRequest describes a pardon. Points is a magnitude; its sign is ignored.
type PardonRequest struct {
	GuildID string
	UserID  string
	ActorID string
	Points  int
	Reason  string
}

// PardonResult is the outcome of Pardon and DeleteWarn
type PardonResult struct {
	Entry    *models.WarnEntry
	Total    int
	Pardoned int64
}

// Pardon subtracts points from a member and pardons the offences their new
// total no longer justifies.
func (e *Engine) Pardon(ctx context.Context, req PardonRequest) (*PardonResult, error) {
	const op = "Pardon"
	magnitude := req.Points
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if !validPoints(magnitude) {
		return nil, validation(op, ErrInvalidPoints)
	}

	defer e.lock(req.GuildID, req.UserID)()

	before, err := e.total(ctx, req.GuildID, req.UserID)
	if err != nil {
		return nil, err
	}
	if before == 0 {
		return nil, validation(op, ErrNothingToPardon)
	}

	total, entry, err := e.recordPoints(ctx, req.GuildID, req.UserID, -magnitude, req.Reason, req.ActorID)
	if err != nil {
		return nil, err
	}
	n, err := e.reconcile(ctx, req.GuildID, req.UserID, total)
	if err != nil {
		return nil, err
	}

	e.publish(ctx, Event{
		Type: EventPardon, GuildID: req.GuildID, UserID: req.UserID, ActorID: req.ActorID,
		Points: -magnitude, Total: total, Reason: entry.Body,
	})
	return &PardonResult{Entry: entry, Total: total, Pardoned: n}, nil
}

// DeleteWarn removes a ledger entry and reconciles the owner's offences
// against the recomputed total. Entry holds the deleted row.
func (e *Engine) DeleteWarn(ctx context.Context, guildID string, id int64, actorID string) (*PardonResult, error) {
	const op = "DeleteWarn"
	entry, err := e.store.GetWarn(ctx, guildID, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFound(op, ErrWarnNotFound)
	}
	if err != nil {
		return nil, transient(op, fmt.Errorf("loading warn: %w", err))
	}

	defer e.lock(guildID, entry.UserID)()

	if err := e.store.DeleteWarn(ctx, guildID, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, notFound(op, ErrWarnNotFound)
		}
		return nil, transient(op, fmt.Errorf("deleting warn: %w", err))
	}

	total, err := e.total(ctx, guildID, entry.UserID)
	if err != nil {
		return nil, err
	}
	n, err := e.reconcile(ctx, guildID, entry.UserID, total)
	if err != nil {
		return nil, err
	}

	e.publish(ctx, Event{
		Type: EventDelWarn, GuildID: guildID, UserID: entry.UserID, ActorID: actorID,
		Points: entry.Points, Total: total, Reason: entry.Body,
	})
	return &PardonResult{Entry: entry, Total: total, Pardoned: n}, nil
}

// WarningsView is a member's ledger in creation order
type WarningsView struct {
	Entries []*models.WarnEntry
	Total   int
}

// ListWarnings returns the member's ledger and total
func (e *Engine) ListWarnings(ctx context.Context, guildID, userID string) (*WarningsView, error) {
	entries, err := e.store.WarnsFor(ctx, guildID, userID)
	if err != nil {
		return nil, transient("ListWarnings", err)
	}
	return &WarningsView{Entries: entries, Total: RunningTotal(entries)}, nil
}

// ListOffences returns the member's offences in creation order
func (e *Engine) ListOffences(ctx context.Context, guildID, userID string) ([]*models.OffenceEntry, error) {
	offences, err := e.store.OffencesFor(ctx, guildID, userID)
	if err != nil {
		return nil, transient("ListOffences", err)
	}
	return offences, nil
}
