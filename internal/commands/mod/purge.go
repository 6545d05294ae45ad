// Package mod - /mod purge command
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

const (
	purgePageSize = 100
	purgeMaxPages = 3
	// bulkDeleteMaxAge is how old a message may be for bulk deletion
	bulkDeleteMaxAge = 14 * 24 * time.Hour
)

// createPurgeCommand creates the /mod purge subcommand
func createPurgeCommand() *discord.Command {
	minAmount := 1.0
	return discord.NewCommand(
		"purge",
		"Elimina mensajes recientes del canal",
		"mod",
		purgeHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "cantidad",
			Description: "Cantidad de mensajes a eliminar (1-100)",
			Required:    true,
			MinValue:    &minAmount,
			MaxValue:    100,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Solo eliminar mensajes de este usuario",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageMessages)
}

// purgeCandidates converts a page of messages, newest first
func purgeCandidates(msgs []*discordgo.Message) []moderation.PurgeCandidate {
	out := make([]moderation.PurgeCandidate, 0, len(msgs))
	for _, m := range msgs {
		c := moderation.PurgeCandidate{ID: m.ID, CreatedAt: m.Timestamp}
		if m.Author != nil {
			c.AuthorID = m.Author.ID
		}
		out = append(out, c)
	}
	return out
}

// purgeHandler handles the /mod purge command
func purgeHandler(ctx *discord.CommandContext) error {
	limit := int(ctx.GetIntOption("cantidad"))
	authorID := ""
	if u := ctx.GetUserOption("usuario"); u != nil {
		authorID = u.ID
	}
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	go func() {
		defer errors.RecoverMiddleware()()

		channelID := ctx.Interaction.ChannelID
		cutoff := time.Now().Add(-bulkDeleteMaxAge)

		var candidates []moderation.PurgeCandidate
		before := ""
		for page := 0; page < purgeMaxPages; page++ {
			msgs, err := ctx.Session.ChannelMessages(channelID, purgePageSize, before, "", "", discordgo.WithContext(ctx.Context()))
			if err != nil {
				logger.Error(fmt.Sprintf("Error leyendo mensajes de %s: %v", channelID, err), "CMD-Purge")
				ctx.EditReply("❌ No pude leer los mensajes del canal.")
				return
			}
			candidates = append(candidates, purgeCandidates(msgs)...)
			if len(msgs) < purgePageSize || authorID == "" || msgs[len(msgs)-1].Timestamp.Before(cutoff) {
				break
			}
			if len(moderation.SelectPurgeTargets(candidates, authorID, limit, cutoff)) == limit {
				break
			}
			before = msgs[len(msgs)-1].ID
		}

		targets := moderation.SelectPurgeTargets(candidates, authorID, limit, cutoff)
		if len(targets) == 0 {
			ctx.EditReply("🔍 No hay mensajes recientes que eliminar.")
			return
		}

		var err error
		if len(targets) == 1 {
			err = ctx.Session.ChannelMessageDelete(channelID, targets[0], discordgo.WithContext(ctx.Context()))
		} else {
			err = ctx.Session.ChannelMessagesBulkDelete(channelID, targets, discordgo.WithContext(ctx.Context()))
		}
		if err != nil {
			logger.Error(fmt.Sprintf("Error eliminando mensajes en %s: %v", channelID, err), "CMD-Purge")
			ctx.EditReply("❌ No pude eliminar los mensajes. ¿Tengo permiso de gestionar mensajes?")
			return
		}
		ctx.EditReply(fmt.Sprintf("🧹 Se eliminaron %d mensajes.", len(targets)))
	}()
	return nil
}
