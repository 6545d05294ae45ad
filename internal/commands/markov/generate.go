// Package markov provides the /markov commands
package markov

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	anticrash "github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	markovgen "github.com/PancyStudios/PancyModGo/pkg/markov"
)

// createGenerateCommand creates the /markov generate subcommand
func createGenerateCommand(generator *markovgen.Generator) *discord.Command {
	return discord.NewCommand(
		"generate",
		"Genera una frase a partir de los mensajes del canal configurado",
		"markov",
		generateHandler(generator),
	)
}

// generateHandler handles the /markov generate command
func generateHandler(generator *markovgen.Generator) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		if err := ctx.Defer(); err != nil {
			return err
		}

		go func() {
			defer anticrash.RecoverMiddleware()()

			sentence, err := generator.GenerateSentence(ctx.Context(), ctx.GuildID())
			if err != nil {
				msg := generateErrorMessage(err)
				if msg == genericGenerateMessage {
					logger.Error(fmt.Sprintf("Error generando frase en %s: %v", ctx.GuildID(), err), "CMD-Markov")
				}
				ctx.EditReply(msg)
				return
			}
			ctx.EditReply("🗣️ " + sentence)
		}()
		return nil
	}
}

const genericGenerateMessage = "❌ No se pudo generar una frase. Inténtalo de nuevo más tarde."

func generateErrorMessage(err error) string {
	switch {
	case errors.Is(err, markovgen.ErrNotConfigured):
		return "❌ No hay un canal configurado. Usa `/setup markov` primero."
	case errors.Is(err, markovgen.ErrEmptyCorpus):
		return "❌ Aún no he leído suficientes mensajes del canal configurado."
	case errors.Is(err, markovgen.ErrNoSeed), errors.Is(err, markovgen.ErrBrokenChain):
		return "🤔 No encontré cómo empezar una frase. Necesito más mensajes."
	default:
		return genericGenerateMessage
	}
}
