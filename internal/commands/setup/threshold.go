// Package setup - /setup threshold-add and /setup threshold-remove commands
package setup

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

// createThresholdAddCommand creates the /setup threshold-add subcommand
func createThresholdAddCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"threshold-add",
		"Añade un castigo automático al alcanzar cierta cantidad de puntos",
		"setup",
		thresholdAddHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "puntos",
			Description: "Puntos que activan el castigo",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "castigo",
			Description: "Castigo a aplicar",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Expulsión", Value: string(models.PunishmentKick)},
				{Name: "Timeout", Value: string(models.PunishmentMute)},
				{Name: "Ban", Value: string(models.PunishmentBan)},
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Duración del timeout o del ban (vacío: ban permanente o timeout máximo)",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

// thresholdAddHandler handles the /setup threshold-add command
func thresholdAddHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		var duration time.Duration
		if raw := ctx.GetStringOption("duracion"); raw != "" {
			d, err := timeparse.Parse(raw)
			if err != nil {
				return ctx.ReplyEphemeral("❌ Duración inválida. Usa formatos como `10m`, `2h`, `3d` o `1w`.")
			}
			duration = d
		}
		if err := ctx.DeferEphemeral(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			t, err := engine.ConfigureThreshold(ctx.Context(), ctx.GuildID(),
				int(ctx.GetIntOption("puntos")),
				models.PunishmentKind(ctx.GetStringOption("castigo")),
				duration)
			if err != nil {
				ctx.EditReplyError("threshold-add", err)
				return
			}
			ctx.EditReply(fmt.Sprintf("✅ Umbral `#%d` creado: al llegar a **%d** puntos se aplicará **%s**.",
				t.ID, t.Points, moderation.DescribePunishment(t.Punishment)))
		}()
		return nil
	}
}

// createThresholdRemoveCommand creates the /setup threshold-remove subcommand
func createThresholdRemoveCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"threshold-remove",
		"Elimina uno o varios umbrales",
		"setup",
		thresholdRemoveHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "ids",
			Description: "IDs de los umbrales separados por comas (visibles en /setup view)",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

// thresholdRemoveHandler handles the /setup threshold-remove command
func thresholdRemoveHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		ids, err := parseIDs(ctx.GetStringOption("ids"))
		if err != nil {
			return ctx.ReplyEphemeral(invalidIDsMessage)
		}
		if err := ctx.DeferEphemeral(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			n, err := engine.RemoveThreshold(ctx.Context(), ctx.GuildID(), ids...)
			if err != nil {
				ctx.EditReplyError("threshold-remove", err)
				return
			}
			ctx.EditReply(fmt.Sprintf("🗑️ Se eliminaron %d umbrales.", n))
		}()
		return nil
	}
}
