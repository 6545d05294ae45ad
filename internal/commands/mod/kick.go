// Package mod - /mod kick command
package mod

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createKickCommand creates the /mod kick subcommand
func createKickCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulsa a un usuario del servidor",
		"mod",
		kickHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a expulsar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la expulsión",
			Required:    false,
			MaxLength:   512,
		},
	).WithUserPermissions(discordgo.PermissionKickMembers)
}

// kickHandler handles the /mod kick command
func kickHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user := userOrReply(ctx)
		if user == nil {
			return nil
		}
		if user.ID == ctx.User().ID {
			return ctx.ReplyEphemeral("❌ No puedes expulsarte a ti mismo.")
		}
		if err := ctx.Defer(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()
			applyPunishment(ctx, engine, "kick", user, moderation.PunishRequest{
				GuildID:    ctx.GuildID(),
				UserID:     user.ID,
				ActorID:    ctx.User().ID,
				Punishment: models.Punishment{Kind: models.PunishmentKick},
				Reason:     ctx.GetStringOption("razon"),
			})
		}()
		return nil
	}
}
