// Package events provides event handlers for guild (server) events
package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildCreate(onGuildCreate)
	client.EventHandler.OnGuildDelete(onGuildDelete)
}

// freshJoin reports whether a GUILD_CREATE is a new join rather than the
// guild being replayed after connecting.
func freshJoin(joinedAt, now time.Time) bool {
	return !joinedAt.Before(now.Add(-10 * time.Second))
}

// onGuildCreate is called when the bot joins a server
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if !freshJoin(g.JoinedAt, time.Now()) {
		return
	}
	guildsJoined.WithLabelValues("join").Inc()

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID == "" {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed()); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
	}
}

func welcomeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "¡Gracias por agregarme! 🛡️",
		Description: "Hola, soy **PancyMod**. Llevo un historial de puntos por usuario y aplico castigos automáticos al superar los umbrales que configures.",
		Color:       0x00ff00,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "⚙️ Configuración",
				Value:  "Define umbrales con `/setup threshold-add`",
				Inline: true,
			},
			{
				Name:   "🔧 Moderación",
				Value:  "Usa `/mod warn` para sumar puntos",
				Inline: true,
			},
			{
				Name:   "❓ Ayuda",
				Value:  "Usa `/utils help` para más información",
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "💫 - Developed by PancyStudios",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("⚠️ Servidor no disponible: %s", g.ID), "Guild")
		return
	}
	guildsJoined.WithLabelValues("leave").Inc()
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}
