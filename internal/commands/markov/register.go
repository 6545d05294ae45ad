package markov

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	markovgen "github.com/PancyStudios/PancyModGo/pkg/markov"
)

// RegisterMarkovCommands registers the /markov subcommands
func RegisterMarkovCommands(client *discord.ExtendedClient, generator *markovgen.Generator) {
	group := client.CommandHandler.BuildCommandGroup(
		"markov",
		"Frases generadas a partir del servidor",
		createGenerateCommand(generator),
	)
	client.CommandHandler.AddGlobalCommand(group)
}
