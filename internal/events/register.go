// Package events provides a registry for organizing bot events.
// Events are organized by category (ready, guild, message, interaction, etc.)
package events

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, ingester Ingester, prefix string) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Gateway disconnect/resume
	RegisterConnectionEvents(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Message events (Markov corpus)
	RegisterMessageEvents(client, ingester, prefix)

	// Confirmation buttons
	RegisterInteractionEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
