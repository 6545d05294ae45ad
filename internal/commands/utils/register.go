package utils

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// StorageStatus reports whether the backing store is reachable
type StorageStatus interface {
	GetStatus() (string, bool)
}

// RegisterUtilsCommands registers all utility commands as /utils subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient, storage StorageStatus) {
	utilsGroup := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		createPingCommand(),
		createStatusCommand(storage),
		createHelpCommand(),
		createStatsCommand(),
	)

	client.CommandHandler.AddGlobalCommand(utilsGroup)
}
