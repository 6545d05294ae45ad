package models

import (
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/timeparse"
)

// PunishmentKind identifies the action taken against a user
type PunishmentKind string

const (
	PunishmentKick     PunishmentKind = "kick"
	PunishmentMute     PunishmentKind = "mute"
	PunishmentBan      PunishmentKind = "ban"  // permanent
	PunishmentTimedBan PunishmentKind = "bant" // lifted by the sweeper
)

// Valid reports whether k is one of the known kinds
func (k PunishmentKind) Valid() bool {
	switch k {
	case PunishmentKick, PunishmentMute, PunishmentBan, PunishmentTimedBan:
		return true
	}
	return false
}

// Punishment is a kind plus, for mutes and timed bans, its length
type Punishment struct {
	Kind     PunishmentKind `bson:"kind" json:"kind"`
	Duration time.Duration  `bson:"duration,omitempty" json:"duration,omitempty"`
}

// RequiresMembership reports whether the punishment can only be applied to
// someone still in the guild.
func (p Punishment) RequiresMembership() bool {
	return p.Kind == PunishmentKick || p.Kind == PunishmentMute
}

// IsBan reports whether the punishment removes the user from the guild for good
// or until the sweeper lifts it.
func (p Punishment) IsBan() bool {
	return p.Kind == PunishmentBan || p.Kind == PunishmentTimedBan
}

// String renders the tag stored in offence audit entries:
// "kick", "timeout 1d", "ban" or "ban 3d".
func (p Punishment) String() string {
	switch p.Kind {
	case PunishmentMute:
		return "timeout " + timeparse.Format(p.Duration)
	case PunishmentTimedBan:
		return "ban " + timeparse.Format(p.Duration)
	default:
		return string(p.Kind)
	}
}

// WarnEntry is one signed line of a user's points ledger. Pardons are stored
// as negative entries.
type WarnEntry struct {
	ID        int64     `bson:"_id" json:"id"`
	GuildID   string    `bson:"guildId" json:"guildId"`
	UserID    string    `bson:"userId" json:"userId"`
	Body      string    `bson:"body" json:"body"`
	Points    int       `bson:"points" json:"points"`
	CreatedBy string    `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// OffenceEntry records a punishment that was actually applied.
// ThresholdPoints is set when the punishment came from an automatic
// escalation and points at the threshold that caused it.
type OffenceEntry struct {
	ID              int64      `bson:"_id" json:"id"`
	GuildID         string     `bson:"guildId" json:"guildId"`
	UserID          string     `bson:"userId" json:"userId"`
	Punishment      Punishment `bson:"punishment" json:"punishment"`
	Body            string     `bson:"body" json:"body"`
	ThresholdPoints *int       `bson:"thresholdPoints,omitempty" json:"thresholdPoints,omitempty"`
	Pardoned        bool       `bson:"pardoned" json:"pardoned"`
	CreatedBy       string     `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
}

// Threshold triggers Punishment once a user's total reaches Points
type Threshold struct {
	ID         int64      `bson:"_id" json:"id"`
	GuildID    string     `bson:"guildId" json:"guildId"`
	Points     int        `bson:"points" json:"points"`
	Punishment Punishment `bson:"punishment" json:"punishment"`
}

// AutocompleteSuggestion is a canned warn reason with its default points
type AutocompleteSuggestion struct {
	ID      int64  `bson:"_id" json:"id"`
	GuildID string `bson:"guildId" json:"guildId"`
	Points  int    `bson:"points" json:"points"`
	Reason  string `bson:"reason" json:"reason"`
}

// PendingSanction is a timed ban waiting to be lifted
type PendingSanction struct {
	ID        int64     `bson:"_id" json:"id"`
	GuildID   string    `bson:"guildId" json:"guildId"`
	UserID    string    `bson:"userId" json:"userId"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
}

// TrigramStore holds the Markov corpus of one guild
type TrigramStore struct {
	GuildID   string   `bson:"_id" json:"guildId"`
	ChannelID string   `bson:"channelId" json:"channelId"`
	Trigrams  []string `bson:"trigrams" json:"-"`
}
