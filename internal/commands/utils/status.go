package utils

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
)

// createStatusCommand creates the /utils status subcommand
func createStatusCommand(storage StorageStatus) *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		"utils",
		statusHandler(storage),
	)
}

// statusHandler handles the /utils status command
func statusHandler(storage StorageStatus) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer errors.RecoverMiddleware()()
			dbStatus := "🔴 | Desconectado"
			if storage != nil {
				dbStatus, _ = storage.GetStatus()
			}

			ctx.Reply(fmt.Sprintf(
				"📊 **Estado del Bot**\n"+
					"• Bot: 🟢 Online\n"+
					"• Base de datos: %s\n"+
					"• Servidores: %d\n"+
					"• Versión: %s",
				dbStatus,
				ctx.Client.GuildCount(),
				config.Version,
			))
		}()
		return nil
	}
}
