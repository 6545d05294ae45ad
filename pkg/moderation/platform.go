package moderation

import (
	"context"
	"time"
)

// Identity is a resolved guild or user
type Identity struct {
	ID   string
	Name string
}

// NoticeKind names the action a direct message informs about
type NoticeKind string

const (
	NoticeWarn   NoticeKind = "warn"
	NoticeKick   NoticeKind = "kick"
	NoticeMute   NoticeKind = "mute"
	NoticeUnmute NoticeKind = "unmute"
	NoticeBan    NoticeKind = "ban"
)

// Notice is the content of the direct message sent to a sanctioned user
type Notice struct {
	Kind      NoticeKind
	GuildName string
	Reason    string
	Points    int
	BanAt     *int
	Until     *time.Time
}

// Platform executes actions on the chat platform. Lookups of guilds or users
// that do not exist fail with ErrUnknownTarget.
type Platform interface {
	Guild(ctx context.Context, guildID string) (*Identity, error)
	User(ctx context.Context, userID string) (*Identity, error)
	IsMember(ctx context.Context, guildID, userID string) (bool, error)
	SendDM(ctx context.Context, userID string, notice Notice) error
	Kick(ctx context.Context, guildID, userID, reason string) error
	// Timeout mutes the member until the given time. A nil until clears it.
	Timeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error
	Unban(ctx context.Context, guildID, userID, reason string) error
}

// Confirmer asks the acting moderator to approve an automatic punishment.
// It returns false, or ctx's error, when no approval arrives.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Event describes a completed moderation action
type Event struct {
	Type       string    `json:"type"`
	GuildID    string    `json:"guildId"`
	UserID     string    `json:"userId"`
	ActorID    string    `json:"actorId,omitempty"`
	Points     int       `json:"points,omitempty"`
	Total      int       `json:"total"`
	Punishment string    `json:"punishment,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	At         time.Time `json:"at"`
}

// Event types
const (
	EventWarn    = "warn"
	EventPardon  = "pardon"
	EventDelWarn = "delwarn"
	EventPunish  = "punish"
	EventUnban   = "unban"
	EventUnmute  = "unmute"
)

// EventSink receives moderation events
type EventSink interface {
	PublishEvent(ctx context.Context, event Event) error
}
