// Package setup - /setup autocomplete-add and /setup autocomplete-remove commands
package setup

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

const invalidIDsMessage = "❌ Indica uno o varios IDs numéricos separados por comas."

// createAutocompleteAddCommand creates the /setup autocomplete-add subcommand
func createAutocompleteAddCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"autocomplete-add",
		"Añade una razón sugerida para /mod warn",
		"setup",
		autocompleteAddHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Texto de la razón",
			Required:    true,
			MaxLength:   88,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "puntos",
			Description: "Puntos que suma esta razón",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

// autocompleteAddHandler handles the /setup autocomplete-add command
func autocompleteAddHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		if err := ctx.DeferEphemeral(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			a, err := engine.ConfigureAutocompleteSuggestion(ctx.Context(), ctx.GuildID(),
				int(ctx.GetIntOption("puntos")), ctx.GetStringOption("razon"))
			if err != nil {
				ctx.EditReplyError("autocomplete-add", err)
				return
			}
			ctx.EditReply(fmt.Sprintf("✅ Sugerencia `#%d` creada: **%s** (%d puntos).", a.ID, a.Reason, a.Points))
		}()
		return nil
	}
}

// createAutocompleteRemoveCommand creates the /setup autocomplete-remove subcommand
func createAutocompleteRemoveCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"autocomplete-remove",
		"Elimina una o varias razones sugeridas",
		"setup",
		autocompleteRemoveHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "ids",
			Description: "IDs de las sugerencias separados por comas (visibles en /setup view)",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

// autocompleteRemoveHandler handles the /setup autocomplete-remove command
func autocompleteRemoveHandler(engine *moderation.Engine) discord.CommandRunFunc {
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

			n, err := engine.RemoveAutocompleteSuggestion(ctx.Context(), ctx.GuildID(), ids...)
			if err != nil {
				ctx.EditReplyError("autocomplete-remove", err)
				return
			}
			ctx.EditReply(fmt.Sprintf("🗑️ Se eliminaron %d sugerencias.", n))
		}()
		return nil
	}
}
