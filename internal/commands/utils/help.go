package utils

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
)

const helpText = "📖 **Ayuda de PancyMod**\n\n" +
	"**Moderación:**\n" +
	"• `/mod warn <usuario> [razón] [puntos]` - Suma puntos a un usuario\n" +
	"• `/mod pardon <usuario> <puntos> [razón]` - Resta puntos\n" +
	"• `/mod delwarn <id>` - Elimina una entrada del historial\n" +
	"• `/mod warnings [usuario]` - Historial de puntos\n" +
	"• `/mod offences <usuario>` - Sanciones aplicadas\n" +
	"• `/mod kick <usuario> [razón]` - Expulsa a un usuario\n" +
	"• `/mod mute <usuario> [duración] [razón]` - Timeout\n" +
	"• `/mod unmute <usuario>` - Retira el timeout\n" +
	"• `/mod ban <usuario> [razón] [duración]` - Banea, de forma temporal si hay duración\n" +
	"• `/mod unban <usuario>` - Retira un ban\n" +
	"• `/mod purge <cantidad> [usuario]` - Elimina mensajes recientes\n\n" +
	"**Configuración:**\n" +
	"• `/setup threshold-add|threshold-remove` - Castigos automáticos por puntos\n" +
	"• `/setup autocomplete-add|autocomplete-remove` - Razones sugeridas\n" +
	"• `/setup view` - Configuración actual\n" +
	"• `/setup markov <canal>` - Canal para `/markov generate`\n\n" +
	"**Utilidades:** `/utils ping`, `/utils status`, `/utils stats`"

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

// helpHandler handles the /utils help command
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		ctx.ReplyEphemeral(helpText)
	}()
	return nil
}
