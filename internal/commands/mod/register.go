// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
)

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient, engine *moderation.Engine) {
	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		createWarnCommand(engine),
		createPardonCommand(engine),
		createDelWarnCommand(engine),
		createWarningsCommand(engine),
		createOffencesCommand(engine),
		createKickCommand(engine),
		createMuteCommand(engine),
		createUnmuteCommand(engine),
		createBanCommand(engine),
		createUnbanCommand(engine),
		createPurgeCommand(),
	)

	client.CommandHandler.AddGlobalCommand(modGroup)
}
