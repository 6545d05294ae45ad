// Package mod - /mod pardon and /mod delwarn commands
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createPardonCommand creates the /mod pardon subcommand
func createPardonCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"pardon",
		"Resta puntos a un usuario",
		"mod",
		pardonHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a perdonar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "puntos",
			Description: "Puntos a restar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del perdón",
			Required:    false,
			MaxLength:   512,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// pardonHandler handles the /mod pardon command
func pardonHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user := userOrReply(ctx)
		if user == nil {
			return nil
		}
		if err := ctx.Defer(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			res, err := engine.Pardon(ctx.Context(), moderation.PardonRequest{
				GuildID: ctx.GuildID(),
				UserID:  user.ID,
				ActorID: ctx.User().ID,
				Points:  int(ctx.GetIntOption("puntos")),
				Reason:  ctx.GetStringOption("razon"),
			})
			if err != nil {
				ctx.EditReplyError("pardon", err)
				return
			}
			ctx.EditReplyEmbed(pardonEmbed(ctx, fmt.Sprintf("🕊️ - Perdón #%d registrado", res.Entry.ID), user.ID, res))
		}()
		return nil
	}
}

// createDelWarnCommand creates the /mod delwarn subcommand
func createDelWarnCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"delwarn",
		"Elimina una entrada del historial de puntos",
		"mod",
		delWarnHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "ID de la advertencia (visible en /mod warnings)",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// delWarnHandler handles the /mod delwarn command
func delWarnHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		if err := ctx.Defer(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			res, err := engine.DeleteWarn(ctx.Context(), ctx.GuildID(), ctx.GetIntOption("id"), ctx.User().ID)
			if err != nil {
				ctx.EditReplyError("delwarn", err)
				return
			}
			ctx.EditReplyEmbed(pardonEmbed(ctx, fmt.Sprintf("🗑️ - Advertencia #%d eliminada", res.Entry.ID), res.Entry.UserID, res))
		}()
		return nil
	}
}

func pardonEmbed(ctx *discord.CommandContext, title, userID string, res *moderation.PardonResult) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("> **Usuario:** <@%s> (%s)\n> **Entrada:** %s (%+d)\n> **Total:** %d",
		userID, userID, res.Entry.Body, res.Entry.Points, res.Total)
	if res.Pardoned > 0 {
		desc += fmt.Sprintf("\n\n🕊️ Se perdonaron %d sanciones que ya no corresponden.", res.Pardoned)
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Color:       colorOK,
		Description: desc,
		Footer:      footer(ctx),
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}
