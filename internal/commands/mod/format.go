package mod

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

const (
	colorOK      = 0x00FF00
	colorWarn    = 0xFFA500
	colorPunish  = 0xFF0000
	footerText   = "💫 - Developed by PancyStudios"
	maxListLines = 20
)

func footer(ctx *discord.CommandContext) *discordgo.MessageEmbedFooter {
	f := &discordgo.MessageEmbedFooter{Text: footerText}
	if g := ctx.Guild(); g != nil {
		f.IconURL = g.IconURL("")
	}
	return f
}

func dmStatus(sent bool) string {
	if sent {
		return "📨 Se notificó al usuario por MD."
	}
	return "📭 No se pudo notificar al usuario por MD."
}

// punishEmbed renders the outcome of a kick, mute or ban
func punishEmbed(ctx *discord.CommandContext, user *discordgo.User, res *moderation.PunishResult) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("> **Usuario:** <@%s> (%s)\n> **Sanción:** %s\n> **Razón:** %s",
		user.ID, user.ID, moderation.DescribePunishment(res.Offence.Punishment), res.Offence.Body)
	if res.ExpiresAt != nil {
		desc += fmt.Sprintf("\n> **Expira:** <t:%d:R>", res.ExpiresAt.Unix())
	}
	desc += "\n\n" + dmStatus(res.DMSent)

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🔨 - Sanción #%d aplicada", res.Offence.ID),
		Color:       colorPunish,
		Description: desc,
		Footer:      footer(ctx),
		Timestamp:   res.Offence.CreatedAt.Format(time.RFC3339),
	}
}

// truncateLines keeps the last n lines and notes how many older ones were left out
func truncateLines(lines []string, n int) string {
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	hidden := len(lines) - n
	return fmt.Sprintf("> … y %d más antiguas\n", hidden) + strings.Join(lines[hidden:], "\n")
}

// userOrReply reads the usuario option and answers when it is missing
func userOrReply(ctx *discord.CommandContext) *discordgo.User {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		_ = ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	return user
}

// applyPunishment runs req and edits the deferred reply with the outcome.
// A ban that went through but could not be scheduled still shows its embed.
func applyPunishment(ctx *discord.CommandContext, engine *moderation.Engine, op string, user *discordgo.User, req moderation.PunishRequest) {
	res, err := engine.Punish(ctx.Context(), req)
	if res != nil && res.Offence != nil {
		ctx.EditReplyEmbed(punishEmbed(ctx, user, res))
		if err != nil {
			logger.Error(fmt.Sprintf("%s en %s: %v", op, ctx.GuildID(), err), "Commands")
			ctx.FollowUp("⚠️ La sanción se aplicó pero no se pudo programar su expiración.", true)
		}
		return
	}
	if err != nil {
		ctx.EditReplyError(op, err)
	}
}
