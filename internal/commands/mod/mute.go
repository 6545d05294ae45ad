// Package mod - /mod mute and /mod unmute commands
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/timeparse"
	"github.com/bwmarrin/discordgo"
)

const invalidDurationMessage = "❌ Duración inválida. Usa formatos como `10m`, `2h`, `3d` o `1w`."

// createMuteCommand creates the /mod mute subcommand
func createMuteCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"mute",
		"Aísla temporalmente a un usuario (timeout)",
		"mod",
		muteHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a aislar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Duración del aislamiento, máximo 28d (por defecto 1w)",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del aislamiento",
			Required:    false,
			MaxLength:   512,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// optionalDuration parses the duracion option. An absent option is zero.
func optionalDuration(ctx *discord.CommandContext) (time.Duration, error) {
	raw := ctx.GetStringOption("duracion")
	if raw == "" {
		return 0, nil
	}
	return timeparse.Parse(raw)
}

// muteHandler handles the /mod mute command
func muteHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user := userOrReply(ctx)
		if user == nil {
			return nil
		}
		duration, err := optionalDuration(ctx)
		if err != nil {
			return ctx.ReplyEphemeral(invalidDurationMessage)
		}
		if err := ctx.Defer(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()
			applyPunishment(ctx, engine, "mute", user, moderation.PunishRequest{
				GuildID:    ctx.GuildID(),
				UserID:     user.ID,
				ActorID:    ctx.User().ID,
				Punishment: models.Punishment{Kind: models.PunishmentMute, Duration: duration},
				Reason:     ctx.GetStringOption("razon"),
			})
		}()
		return nil
	}
}

// createUnmuteCommand creates the /mod unmute subcommand
func createUnmuteCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Retira el aislamiento de un usuario",
		"mod",
		unmuteHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a liberar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón",
			Required:    false,
			MaxLength:   512,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// unmuteHandler handles the /mod unmute command
func unmuteHandler(engine *moderation.Engine) discord.CommandRunFunc {
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

			sent, err := engine.Unmute(ctx.Context(), ctx.GuildID(), user.ID, ctx.User().ID, ctx.GetStringOption("razon"))
			if err != nil {
				ctx.EditReplyError("unmute", err)
				return
			}
			ctx.EditReply(fmt.Sprintf("🔊 Se retiró el aislamiento de <@%s>.\n%s", user.ID, dmStatus(sent)))
		}()
		return nil
	}
}
