// Package mod - /mod ban and /mod unban commands
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

const (
	banKeepMessages   = "save"
	banDeleteMessages = "del"
)

// createBanCommand creates the /mod ban subcommand
func createBanCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea a un usuario del servidor",
		"mod",
		banHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a banear",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del ban",
			Required:    false,
			MaxLength:   512,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Duración del ban (vacío para permanente)",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "mensajes",
			Description: "Qué hacer con sus mensajes del último día",
			Required:    false,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Conservar", Value: banKeepMessages},
				{Name: "Eliminar", Value: banDeleteMessages},
			},
		},
	).WithUserPermissions(discordgo.PermissionBanMembers)
}

// banHandler handles the /mod ban command
func banHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user := userOrReply(ctx)
		if user == nil {
			return nil
		}
		if user.ID == ctx.User().ID {
			return ctx.ReplyEphemeral("❌ No puedes banearte a ti mismo.")
		}
		duration, err := optionalDuration(ctx)
		if err != nil {
			return ctx.ReplyEphemeral(invalidDurationMessage)
		}
		deleteDays := 0
		if ctx.GetStringOption("mensajes") == banDeleteMessages {
			deleteDays = 1
		}
		if err := ctx.Defer(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()
			applyPunishment(ctx, engine, "ban", user, moderation.PunishRequest{
				GuildID:           ctx.GuildID(),
				UserID:            user.ID,
				ActorID:           ctx.User().ID,
				Punishment:        models.Punishment{Kind: models.PunishmentBan, Duration: duration},
				Reason:            ctx.GetStringOption("razon"),
				DeleteMessageDays: deleteDays,
			})
		}()
		return nil
	}
}

// createUnbanCommand creates the /mod unban subcommand
func createUnbanCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"unban",
		"Retira el ban de un usuario",
		"mod",
		unbanHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario (o ID) a desbanear",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón",
			Required:    false,
			MaxLength:   512,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers)
}

// unbanHandler handles the /mod unban command
func unbanHandler(engine *moderation.Engine) discord.CommandRunFunc {
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

			if err := engine.Unban(ctx.Context(), ctx.GuildID(), user.ID, ctx.User().ID, ctx.GetStringOption("razon")); err != nil {
				ctx.EditReplyError("unban", err)
				return
			}
			ctx.EditReply(fmt.Sprintf("✅ Se retiró el ban de **%s** (%s).", user.Username, user.ID))
		}()
		return nil
	}
}
