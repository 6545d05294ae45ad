// Package setup - /setup markov command
package setup

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/markov"
	"github.com/bwmarrin/discordgo"
)

// createMarkovCommand creates the /setup markov subcommand
func createMarkovCommand(generator *markov.Generator) *discord.Command {
	return discord.NewCommand(
		"markov",
		"Elige el canal del que se aprenden frases para /markov",
		"setup",
		markovHandler(generator),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "Canal de texto",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

// markovHandler handles the /setup markov command
func markovHandler(generator *markov.Generator) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		opt := ctx.GetOption("canal")
		if opt == nil {
			return ctx.ReplyEphemeral("❌ Debes especificar un canal.")
		}
		channelID := opt.StringValue()
		if err := ctx.DeferEphemeral(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			if err := generator.Setup(ctx.Context(), ctx.GuildID(), channelID); err != nil {
				logger.Error(fmt.Sprintf("Error configurando Markov en %s: %v", ctx.GuildID(), err), "CMD-Setup")
				ctx.EditReply("❌ No se pudo guardar la configuración. Inténtalo de nuevo más tarde.")
				return
			}
			ctx.EditReply(fmt.Sprintf("✅ Aprenderé frases de los mensajes de <#%s>.", channelID))
		}()
		return nil
	}
}
