// Package mod - /mod warn command
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

// maxChoiceName is the Discord limit for autocomplete choice names
const maxChoiceName = 100

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand(engine *moderation.Engine) *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario y suma puntos a su historial",
		"mod",
		warnHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "razon",
			Description:  "Razón de la advertencia",
			Required:     false,
			MaxLength:    512,
			Autocomplete: true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "puntos",
			Description: "Puntos a sumar (por defecto los de la razón sugerida, o 1)",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithAutoComplete(warnAutocomplete(engine))
}

// warnHandler handles the /mod warn command
func warnHandler(engine *moderation.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user := userOrReply(ctx)
		if user == nil {
			return nil
		}
		if user.Bot {
			return ctx.ReplyEphemeral("❌ No puedes advertir a un bot.")
		}

		if err := ctx.Defer(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			req := moderation.WarnRequest{
				GuildID: ctx.GuildID(),
				UserID:  user.ID,
				ActorID: ctx.User().ID,
				Reason:  ctx.GetStringOption("razon"),
			}
			if p, ok := ctx.GetOptionalIntOption("puntos"); ok {
				points := int(p)
				req.Points = &points
			}

			res, err := engine.Warn(ctx.Context(), req)
			if err != nil {
				ctx.EditReplyError("warn", err)
				return
			}
			ctx.EditReplyEmbed(warnEmbed(ctx, user, res))

			if res.Breach == nil {
				return
			}
			punished, err := engine.ExecuteBreach(ctx.Context(), ctx.GuildID(), user.ID, ctx.User().ID, res.Breach, discord.NewButtonConfirmer(ctx))
			if err != nil {
				if moderation.KindOf(err) != moderation.KindValidation {
					logger.Error(fmt.Sprintf("Error aplicando el umbral de %d puntos a %s: %v", res.Breach.Points, user.ID, err), "CMD-Warn")
				}
				ctx.FollowUp(moderation.UserMessage(err), true)
				return
			}
			if punished == nil {
				return
			}
			ctx.FollowUp(fmt.Sprintf("🔨 Se aplicó **%s** a <@%s> al llegar a %d puntos.",
				moderation.DescribePunishment(punished.Offence.Punishment), user.ID, res.Breach.Points), false)
		}()
		return nil
	}
}

func warnEmbed(ctx *discord.CommandContext, user *discordgo.User, res *moderation.WarnResult) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("> **Usuario:** <@%s> (%s)\n> **Razón:** %s\n> **Puntos:** +%d\n> **Total:** %d",
		user.ID, user.ID, res.Entry.Body, res.Entry.Points, res.Total)
	if res.BanAt != nil {
		desc += fmt.Sprintf(" / %d", *res.BanAt)
	}
	if res.Breach != nil {
		desc += fmt.Sprintf("\n\n⚠️ Se alcanzó el umbral de **%d** puntos: %s.",
			res.Breach.Points, moderation.DescribePunishment(res.Breach.Punishment))
	}
	desc += "\n\n" + dmStatus(res.DMSent)

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⚠️ - Advertencia #%d registrada", res.Entry.ID),
		Color:       colorWarn,
		Description: desc,
		Footer:      footer(ctx),
		Timestamp:   res.Entry.CreatedAt.Format(time.RFC3339),
	}
}

// warnAutocomplete suggests the guild's canned reasons matching what was typed
func warnAutocomplete(engine *moderation.Engine) discord.AutoCompleteFunc {
	return func(ctx *discord.CommandContext) {
		typed := ""
		if focused := ctx.FocusedOption(); focused != nil {
			typed = focused.StringValue()
		}

		suggestions, err := engine.SuggestReasons(ctx.Context(), ctx.GuildID(), typed)
		if err != nil {
			logger.Debug(fmt.Sprintf("Autocompletado no disponible en %s: %v", ctx.GuildID(), err), "CMD-Warn")
		}

		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(suggestions))
		for _, s := range suggestions {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  choiceName(s.Reason, s.Points),
				Value: s.Reason,
			})
		}
		ctx.RespondChoices(choices)
	}
}

func choiceName(reason string, points int) string {
	suffix := fmt.Sprintf(" (%d pts)", points)
	runes := []rune(reason)
	if room := maxChoiceName - len([]rune(suffix)); len(runes) > room {
		runes = append(runes[:room-1], '…')
	}
	return string(runes) + suffix
}
