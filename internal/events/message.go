// Package events provides event handlers for message events
package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Ingester feeds guild messages to the Markov corpus
type Ingester interface {
	IngestMessage(ctx context.Context, guildID, channelID, text string) (int, error)
}

const ingestTimeout = 10 * time.Second

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient, ingester Ingester, prefix string) {
	client.EventHandler.OnMessageCreate(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		onMessageCreate(s, m, ingester, prefix)
	})
}

// shouldIngest filters out what must never reach the corpus: bots, direct
// messages, empty bodies and commands given by prefix or by mentioning botID.
func shouldIngest(m *discordgo.Message, prefix, botID string) bool {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return false
	}
	content := strings.TrimSpace(m.Content)
	if content == "" {
		return false
	}
	if prefix != "" && strings.HasPrefix(content, prefix) {
		return false
	}
	if botID != "" && (strings.HasPrefix(content, "<@"+botID+">") || strings.HasPrefix(content, "<@!"+botID+">")) {
		return false
	}
	return true
}

// mentionsUser reports whether userID is among the message mentions
func mentionsUser(m *discordgo.Message, userID string) bool {
	for _, mention := range m.Mentions {
		if mention.ID == userID {
			return true
		}
	}
	return false
}

// onMessageCreate is called when a new message is created
func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, ingester Ingester, prefix string) {
	defer errors.RecoverMiddleware()()

	if m.Author == nil || m.Author.Bot {
		return
	}

	botID := ""
	if s.State != nil && s.State.User != nil {
		botID = s.State.User.ID
	}

	if botID != "" && mentionsUser(m.Message, botID) {
		embed := &discordgo.MessageEmbed{
			Title:       "👋 ¡Hola!",
			Description: "Usa comandos **slash (/)** para interactuar conmigo.\nEscribe `/utils help` para ver todos los comandos disponibles.",
			Color:       0x3498db,
		}
		if _, err := s.ChannelMessageSendEmbedReply(m.ChannelID, embed, m.Reference()); err != nil {
			logger.Debug(fmt.Sprintf("Error respondiendo mención: %v", err), "Message")
		}
	}

	if ingester == nil || !shouldIngest(m.Message, prefix, botID) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()
	n, err := ingester.IngestMessage(ctx, m.GuildID, m.ChannelID, m.Content)
	if err != nil {
		logger.Error(fmt.Sprintf("Error guardando mensaje para Markov en %s: %v", m.GuildID, err), "Message")
		return
	}
	if n > 0 {
		logger.Debug(fmt.Sprintf("🧠 %d trigramas añadidos en %s", n, m.GuildID), "Message")
	}
}
