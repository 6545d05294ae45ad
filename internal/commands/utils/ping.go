package utils

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
)

// createPingCommand creates the /utils ping subcommand
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Comprueba la latencia del bot",
		"utils",
		pingHandler,
	)
}

// pingHandler reports the gateway heartbeat and the time Discord took to
// acknowledge a deferred response.
func pingHandler(ctx *discord.CommandContext) error {
	start := time.Now()
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}
	rest := time.Since(start)

	go func() {
		defer errors.RecoverMiddleware()()
		gateway := ctx.Session.HeartbeatLatency()
		ctx.EditReply(fmt.Sprintf("🏓 Pong!\n• Gateway: %dms\n• API: %dms", gateway.Milliseconds(), rest.Milliseconds()))
	}()
	return nil
}
