// Package setup - /setup view command
package setup

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createViewCommand creates the /setup view subcommand
func createViewCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"view",
		"Muestra los umbrales y sugerencias configurados",
		"setup",
		viewHandler(engine),
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

// viewHandler handles the /setup view command
func viewHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		if err := ctx.DeferEphemeral(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			view, err := engine.SetupView(ctx.Context(), ctx.GuildID())
			if err != nil {
				ctx.EditReplyError("view", err)
				return
			}
			ctx.EditReplyEmbed(viewEmbed(view))
		}()
		return nil
	}
}

func viewEmbed(view *moderation.SetupView) *discordgo.MessageEmbed {
	thresholds := make([]string, 0, len(view.Thresholds))
	for _, t := range view.Thresholds {
		thresholds = append(thresholds, fmt.Sprintf("`#%d` **%d pts** → %s", t.ID, t.Points, moderation.DescribePunishment(t.Punishment)))
	}
	suggestions := make([]string, 0, len(view.Suggestions))
	for _, s := range view.Suggestions {
		suggestions = append(suggestions, fmt.Sprintf("`#%d` **%d pts** %s", s.ID, s.Points, s.Reason))
	}

	banAt := "Sin ban permanente configurado"
	if view.PermanentBanAt != nil {
		banAt = fmt.Sprintf("Ban permanente a los **%d** puntos", *view.PermanentBanAt)
	}

	return &discordgo.MessageEmbed{
		Title:       "⚙️ - Configuración de advertencias",
		Color:       0x5865F2,
		Description: banAt,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📈 Umbrales", Value: orNone(thresholds)},
			{Name: "💬 Sugerencias de /mod warn", Value: orNone(suggestions)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "💫 - Developed by PancyStudios"},
	}
}

func orNone(lines []string) string {
	if len(lines) == 0 {
		return "Ninguno"
	}
	return strings.Join(lines, "\n")
}
