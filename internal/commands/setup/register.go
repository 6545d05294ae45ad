// Package setup provides the guild configuration commands under /setup
package setup

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/markov"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
)

// RegisterSetupCommands registers all configuration commands as /setup subcommands
func RegisterSetupCommands(client *discord.ExtendedClient, engine *moderation.Engine, generator *markov.Generator) {
	setupGroup := client.CommandHandler.BuildCommandGroup(
		"setup",
		"Configuración del servidor",
		createThresholdAddCommand(engine),
		createThresholdRemoveCommand(engine),
		createAutocompleteAddCommand(engine),
		createAutocompleteRemoveCommand(engine),
		createViewCommand(engine),
		createMarkovCommand(generator),
	)

	client.CommandHandler.AddGlobalCommand(setupGroup)
}
