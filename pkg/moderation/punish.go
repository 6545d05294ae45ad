package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/timeparse"
)

const (
	defaultMute = timeparse.Week
	maxMute     = 28 * timeparse.Day
)

// PunishRequest describes a kick, mute or ban. A ban with a Duration is
// lifted by the sweeper once it expires.
type PunishRequest struct {
	GuildID    string
	UserID     string
	ActorID    string
	Punishment models.Punishment
	Reason     string
	// DeleteMessageDays is 0 or 1
	DeleteMessageDays int
	// ThresholdPoints is set when the punishment comes from an escalation
	ThresholdPoints *int
}

// PunishResult is the outcome of a punishment
type PunishResult struct {
	Offence   *models.OffenceEntry
	DMSent    bool
	ExpiresAt *time.Time
}

// DescribePunishment renders p for humans, in Spanish
func DescribePunishment(p models.Punishment) string {
	switch p.Kind {
	case models.PunishmentKick:
		return "Expulsión"
	case models.PunishmentMute:
		return "Timeout " + timeparse.Format(p.Duration)
	case models.PunishmentBan:
		return "Ban permanente"
	case models.PunishmentTimedBan:
		return "Ban " + timeparse.Format(p.Duration)
	default:
		return string(p.Kind)
	}
}

func platformError(op string, err error) error {
	if errors.Is(err, ErrUnknownTarget) {
		return notFound(op, err)
	}
	return external(op, err)
}

// normalizePunishment fills in the mute default and folds ban/bant on the
// presence of a duration.
func normalizePunishment(p models.Punishment) (models.Punishment, error) {
	switch p.Kind {
	case models.PunishmentKick:
		p.Duration = 0
	case models.PunishmentMute:
		if p.Duration <= 0 {
			p.Duration = defaultMute
		}
		if p.Duration > maxMute {
			return p, ErrMuteTooLong
		}
	case models.PunishmentBan, models.PunishmentTimedBan:
		if p.Duration > 0 {
			p.Kind = models.PunishmentTimedBan
		} else {
			p.Kind = models.PunishmentBan
			p.Duration = 0
		}
	default:
		return p, ErrInvalidPunishment
	}
	return p, nil
}

// Punish applies a punishment through the platform and records the offence.
// Nothing is written when the platform rejects the action.
func (e *Engine) Punish(ctx context.Context, req PunishRequest) (*PunishResult, error) {
	return e.punish(ctx, req, nil)
}

// punish is Punish with an optional check that runs under the member's lock
// right before the platform action. A false check drops the punishment and
// returns nil without error.
func (e *Engine) punish(ctx context.Context, req PunishRequest, due func(context.Context) (bool, error)) (*PunishResult, error) {
	const op = "Punish"
	p, err := normalizePunishment(req.Punishment)
	if err != nil {
		return nil, validation(op, err)
	}
	reason := reasonOrDefault(req.Reason)
	deleteDays := 0
	if req.DeleteMessageDays > 0 {
		deleteDays = 1
	}

	if p.RequiresMembership() {
		member, err := e.platform.IsMember(ctx, req.GuildID, req.UserID)
		if err != nil {
			return nil, platformError(op, err)
		}
		if !member {
			return nil, validation(op, ErrNotMember)
		}
	}

	defer e.lock(req.GuildID, req.UserID)()

	if due != nil {
		ok, err := due(ctx)
		if err != nil || !ok {
			return nil, err
		}
	}

	now := e.now()
	res := &PunishResult{}
	if p.Duration > 0 {
		until := now.Add(p.Duration)
		res.ExpiresAt = &until
	}
	notice := Notice{GuildName: e.guildName(ctx, req.GuildID), Reason: reason, Until: res.ExpiresAt}

	switch p.Kind {
	case models.PunishmentKick:
		notice.Kind = NoticeKick
		res.DMSent = e.sendDM(ctx, req.UserID, notice)
		err = e.platform.Kick(ctx, req.GuildID, req.UserID, reason)
	case models.PunishmentMute:
		notice.Kind = NoticeMute
		err = e.platform.Timeout(ctx, req.GuildID, req.UserID, res.ExpiresAt, reason)
		if err == nil {
			res.DMSent = e.sendDM(ctx, req.UserID, notice)
		}
	default:
		notice.Kind = NoticeBan
		res.DMSent = e.sendDM(ctx, req.UserID, notice)
		err = e.platform.Ban(ctx, req.GuildID, req.UserID, reason, deleteDays)
	}
	if err != nil {
		return nil, platformError(op, err)
	}

	offence := &models.OffenceEntry{
		GuildID:         req.GuildID,
		UserID:          req.UserID,
		Punishment:      p,
		Body:            reason,
		ThresholdPoints: req.ThresholdPoints,
		CreatedBy:       req.ActorID,
		CreatedAt:       now,
	}
	if err := e.store.InsertOffence(ctx, offence); err != nil {
		logger.Error(fmt.Sprintf("Castigo aplicado a %s en %s pero no se pudo registrar: %v", req.UserID, req.GuildID, err), "Moderation")
		return nil, transient(op, fmt.Errorf("recording offence: %w", err))
	}
	res.Offence = offence

	if p.IsBan() {
		if err := e.trackBan(ctx, req.GuildID, req.UserID, res.ExpiresAt); err != nil {
			return res, transient(op, err)
		}
	}

	source := "manual"
	if req.ThresholdPoints != nil {
		source = "threshold"
	}
	punishmentsApplied.WithLabelValues(string(p.Kind), source).Inc()

	e.publish(ctx, Event{
		Type: EventPunish, GuildID: req.GuildID, UserID: req.UserID, ActorID: req.ActorID,
		Punishment: p.String(), Reason: reason,
	})
	return res, nil
}

// trackBan keeps at most one pending sanction per member: a new ban drops
// the previous one and a timed ban schedules its own.
func (e *Engine) trackBan(ctx context.Context, guildID, userID string, expiresAt *time.Time) error {
	if expiresAt == nil {
		if _, err := e.store.DeletePendingSanction(ctx, guildID, userID); err != nil {
			return fmt.Errorf("clearing pending sanction: %w", err)
		}
		return nil
	}
	err := e.store.ReplacePendingSanction(ctx, &models.PendingSanction{
		GuildID:   guildID,
		UserID:    userID,
		ExpiresAt: *expiresAt,
	})
	if err != nil {
		return fmt.Errorf("scheduling unban: %w", err)
	}
	return nil
}

// Unban lifts a ban and cancels its pending sanction. No offence is recorded.
func (e *Engine) Unban(ctx context.Context, guildID, userID, actorID, reason string) error {
	const op = "Unban"
	reason = reasonOrDefault(reason)

	if err := e.platform.Unban(ctx, guildID, userID, reason); err != nil {
		if errors.Is(err, ErrUnknownTarget) {
			return validation(op, ErrNotBanned)
		}
		return external(op, err)
	}
	if _, err := e.store.DeletePendingSanction(ctx, guildID, userID); err != nil {
		return transient(op, fmt.Errorf("clearing pending sanction: %w", err))
	}

	e.publish(ctx, Event{Type: EventUnban, GuildID: guildID, UserID: userID, ActorID: actorID, Reason: reason})
	return nil
}

// Unmute clears a member's timeout and tells them. No offence is recorded.
// It reports whether the direct message was delivered.
func (e *Engine) Unmute(ctx context.Context, guildID, userID, actorID, reason string) (bool, error) {
	const op = "Unmute"
	reason = reasonOrDefault(reason)

	member, err := e.platform.IsMember(ctx, guildID, userID)
	if err != nil {
		return false, platformError(op, err)
	}
	if !member {
		return false, validation(op, ErrNotMember)
	}
	if err := e.platform.Timeout(ctx, guildID, userID, nil, reason); err != nil {
		return false, platformError(op, err)
	}

	sent := e.sendDM(ctx, userID, Notice{Kind: NoticeUnmute, GuildName: e.guildName(ctx, guildID), Reason: reason})
	e.publish(ctx, Event{Type: EventUnmute, GuildID: guildID, UserID: userID, ActorID: actorID, Reason: reason})
	return sent, nil
}
