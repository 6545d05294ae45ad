package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// SessionPlatform carries out moderation actions through the Discord REST API
type SessionPlatform struct {
	session *discordgo.Session
}

// NewSessionPlatform creates a SessionPlatform over an open session
func NewSessionPlatform(session *discordgo.Session) *SessionPlatform {
	return &SessionPlatform{session: session}
}

// mapRESTError turns "unknown guild/member/user/ban" answers into
// moderation.ErrUnknownTarget so callers can tell them from outages.
func mapRESTError(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownGuild,
			discordgo.ErrCodeUnknownMember,
			discordgo.ErrCodeUnknownUser,
			discordgo.ErrCodeUnknownBan:
			return fmt.Errorf("%w: %v", moderation.ErrUnknownTarget, err)
		}
	}
	return err
}

func (p *SessionPlatform) Guild(ctx context.Context, guildID string) (*moderation.Identity, error) {
	if g, err := p.session.State.Guild(guildID); err == nil {
		return &moderation.Identity{ID: g.ID, Name: g.Name}, nil
	}
	g, err := p.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapRESTError(err)
	}
	return &moderation.Identity{ID: g.ID, Name: g.Name}, nil
}

func (p *SessionPlatform) User(ctx context.Context, userID string) (*moderation.Identity, error) {
	u, err := p.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapRESTError(err)
	}
	return &moderation.Identity{ID: u.ID, Name: u.Username}, nil
}

func (p *SessionPlatform) IsMember(ctx context.Context, guildID, userID string) (bool, error) {
	if _, err := p.session.State.Member(guildID, userID); err == nil {
		return true, nil
	}
	_, err := p.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err == nil {
		return true, nil
	}
	err = mapRESTError(err)
	if errors.Is(err, moderation.ErrUnknownTarget) {
		return false, nil
	}
	return false, err
}

func (p *SessionPlatform) SendDM(ctx context.Context, userID string, notice moderation.Notice) error {
	ch, err := p.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return mapRESTError(err)
	}
	_, err = p.session.ChannelMessageSendEmbed(ch.ID, NoticeEmbed(notice), discordgo.WithContext(ctx))
	return err
}

func (p *SessionPlatform) Kick(ctx context.Context, guildID, userID, reason string) error {
	return mapRESTError(p.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)))
}

func (p *SessionPlatform) Timeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error {
	return mapRESTError(p.session.GuildMemberTimeout(guildID, userID, until,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason)))
}

func (p *SessionPlatform) Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error {
	return mapRESTError(p.session.GuildBanCreateWithReason(guildID, userID, reason, deleteMessageDays, discordgo.WithContext(ctx)))
}

func (p *SessionPlatform) Unban(ctx context.Context, guildID, userID, reason string) error {
	return mapRESTError(p.session.GuildBanDelete(guildID, userID,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason)))
}

const (
	colorWarn   = 0xF1C40F
	colorKick   = 0xE67E22
	colorMute   = 0x95A5A6
	colorUnmute = 0x2ECC71
	colorBan    = 0xE74C3C
)

// NoticeEmbed renders the direct message sent to a sanctioned user
func NoticeEmbed(n moderation.Notice) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Razón", Value: n.Reason},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	switch n.Kind {
	case moderation.NoticeWarn:
		embed.Title = "⚠️ Has recibido una advertencia"
		embed.Description = fmt.Sprintf("Has sido advertido en **%s**.", n.GuildName)
		embed.Color = colorWarn
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Puntos", Value: fmt.Sprintf("%d", n.Points), Inline: true,
		})
		if n.BanAt != nil {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Al llegar a %d puntos serás baneado.", *n.BanAt),
			}
		}
	case moderation.NoticeKick:
		embed.Title = "👢 Has sido expulsado"
		embed.Description = fmt.Sprintf("Has sido expulsado de **%s**.", n.GuildName)
		embed.Color = colorKick
	case moderation.NoticeMute:
		embed.Title = "🔇 Has sido silenciado"
		embed.Description = fmt.Sprintf("Has sido silenciado en **%s**.", n.GuildName)
		embed.Color = colorMute
	case moderation.NoticeUnmute:
		embed.Title = "🔊 Ya no estás silenciado"
		embed.Description = fmt.Sprintf("Tu silencio en **%s** ha sido retirado.", n.GuildName)
		embed.Color = colorUnmute
	case moderation.NoticeBan:
		embed.Title = "🔨 Has sido baneado"
		embed.Description = fmt.Sprintf("Has sido baneado de **%s**.", n.GuildName)
		embed.Color = colorBan
		if n.Until == nil {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Duración", Value: "Permanente", Inline: true})
		}
	}

	if n.Until != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Hasta", Value: fmt.Sprintf("<t:%d:F>", n.Until.Unix()), Inline: true,
		})
	}
	return embed
}
