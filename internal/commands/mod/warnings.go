// Package mod - /mod warnings and /mod offences commands
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createWarningsCommand creates the /mod warnings subcommand
func createWarningsCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"warnings",
		"Muestra el historial de puntos de un usuario",
		"mod",
		warningsHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a consultar (por defecto tú)",
			Required:    false,
		},
	)
}

// canModerate reports whether the invoking member may look at other users
func canModerate(ctx *discord.CommandContext) bool {
	m := ctx.Member()
	if m == nil {
		return false
	}
	return m.Permissions&discordgo.PermissionAdministrator != 0 ||
		m.Permissions&discordgo.PermissionModerateMembers != 0
}

// warningsHandler handles the /mod warnings command. Anyone may check their
// own ledger; moderators may check anyone's and see who issued each entry.
func warningsHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target := ctx.GetUserOption("usuario")
		if target == nil {
			target = ctx.User()
		}
		isModerator := canModerate(ctx)
		if target.ID != ctx.User().ID && !isModerator {
			return ctx.ReplyEphemeral("❌ Solo puedes consultar tus propias advertencias.")
		}

		if err := ctx.DeferEphemeral(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			view, err := engine.ListWarnings(ctx.Context(), ctx.GuildID(), target.ID)
			if err != nil {
				ctx.EditReplyError("warnings", err)
				return
			}
			ctx.EditReplyEmbed(warningsEmbed(ctx, target, view, isModerator))
		}()
		return nil
	}
}

func warningsEmbed(ctx *discord.CommandContext, target *discordgo.User, view *moderation.WarningsView, isModerator bool) *discordgo.MessageEmbed {
	summary := fmt.Sprintf("> 💫 - **Puntos totales:** %d\n> 🕒 - **Fecha de consulta:** <t:%d>", view.Total, time.Now().Unix())

	if len(view.Entries) == 0 {
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", target.Username),
			Color:       colorOK,
			Description: "No se han encontrado advertencias del usuario en este servidor\n\n" + summary,
			Footer:      footer(ctx),
		}
	}

	lines := make([]string, 0, len(view.Entries))
	for _, w := range view.Entries {
		line := fmt.Sprintf("> `#%d` **%+d** %s (<t:%d:d>)", w.ID, w.Points, w.Body, w.CreatedAt.Unix())
		if isModerator {
			line += fmt.Sprintf(" por <@%s>", w.CreatedBy)
		}
		lines = append(lines, line)
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s (%s)", target.Username, target.ID),
		Color:       colorWarn,
		Description: truncateLines(lines, maxListLines) + "\n\n" + summary,
		Footer:      footer(ctx),
	}
}

// createOffencesCommand creates the /mod offences subcommand
func createOffencesCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"offences",
		"Muestra las sanciones aplicadas a un usuario",
		"mod",
		offencesHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a consultar",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// offencesHandler handles the /mod offences command
func offencesHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user := userOrReply(ctx)
		if user == nil {
			return nil
		}
		if err := ctx.DeferEphemeral(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			offences, err := engine.ListOffences(ctx.Context(), ctx.GuildID(), user.ID)
			if err != nil {
				ctx.EditReplyError("offences", err)
				return
			}
			ctx.EditReplyEmbed(offencesEmbed(ctx, user, offences))
		}()
		return nil
	}
}

func offencesEmbed(ctx *discord.CommandContext, user *discordgo.User, offences []*models.OffenceEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("📕 - Sanciones de %s (%s)", user.Username, user.ID),
		Color:  colorOK,
		Footer: footer(ctx),
	}
	if len(offences) == 0 {
		embed.Description = "El usuario no tiene sanciones en este servidor."
		return embed
	}

	active := 0
	lines := make([]string, 0, len(offences))
	for _, o := range offences {
		entry := fmt.Sprintf("`#%d` **%s** %s (<t:%d:d>)", o.ID, moderation.DescribePunishment(o.Punishment), o.Body, o.CreatedAt.Unix())
		if o.Pardoned {
			entry = "~~" + entry + "~~ 🕊️"
		} else {
			active++
		}
		lines = append(lines, "> "+entry)
	}
	embed.Color = colorPunish
	embed.Description = truncateLines(lines, maxListLines) +
		fmt.Sprintf("\n\n> 💫 - **Sanciones activas:** %d de %d", active, len(offences))
	return embed
}
