// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (mod, setup, markov, utils)
package commands

import (
	"github.com/PancyStudios/PancyModGo/internal/commands/markov"
	"github.com/PancyStudios/PancyModGo/internal/commands/mod"
	"github.com/PancyStudios/PancyModGo/internal/commands/setup"
	"github.com/PancyStudios/PancyModGo/internal/commands/utils"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	markovgen "github.com/PancyStudios/PancyModGo/pkg/markov"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
)

// Services are what the command handlers call into. The zero value is
// enough to build the command definitions, as cmd/sync-commands does.
type Services struct {
	Engine  *moderation.Engine
	Markov  *markovgen.Generator
	Storage utils.StorageStatus
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc Services) {
	// Moderation commands (/mod warn, /mod ban, /mod purge, ...)
	mod.RegisterModCommands(client, svc.Engine)

	// Guild configuration (/setup threshold-add, /setup markov, ...)
	setup.RegisterSetupCommands(client, svc.Engine, svc.Markov)

	markov.RegisterMarkovCommands(client, svc.Markov)

	// Utility commands
	utils.RegisterUtilsCommands(client, svc.Storage)
}
