// Package events provides event handlers for interaction events
package events

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterInteractionEvents routes message components to the client's
// component router. Slash commands are handled by the client itself.
func RegisterInteractionEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnInteractionCreate(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionMessageComponent {
			return
		}
		logger.Debug(fmt.Sprintf("🔘 Componente clickeado: %s", i.MessageComponentData().CustomID), "Interaction")
		client.Components.Dispatch(s, i)
	})
}
