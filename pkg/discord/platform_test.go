package discord

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restError(code int) error {
	return &discordgo.RESTError{
		Response: &http.Response{Status: "404 Not Found", StatusCode: http.StatusNotFound},
		Message:  &discordgo.APIErrorMessage{Code: code, Message: "Unknown"},
	}
}

func TestMapRESTError(t *testing.T) {
	for _, code := range []int{
		discordgo.ErrCodeUnknownGuild,
		discordgo.ErrCodeUnknownMember,
		discordgo.ErrCodeUnknownUser,
		discordgo.ErrCodeUnknownBan,
	} {
		err := mapRESTError(restError(code))
		assert.ErrorIs(t, err, moderation.ErrUnknownTarget, "code %d", code)
	}

	forbidden := restError(discordgo.ErrCodeMissingPermissions)
	assert.Same(t, forbidden, mapRESTError(forbidden))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapRESTError(plain))
	assert.NoError(t, mapRESTError(nil))
}

func field(embed *discordgo.MessageEmbed, name string) *discordgo.MessageEmbedField {
	for _, f := range embed.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func TestNoticeEmbedWarn(t *testing.T) {
	banAt := 10
	embed := NoticeEmbed(moderation.Notice{
		Kind: moderation.NoticeWarn, GuildName: "Pancy", Reason: "spam", Points: 3, BanAt: &banAt,
	})

	assert.Contains(t, embed.Description, "**Pancy**")
	require.NotNil(t, field(embed, "Puntos"))
	assert.Equal(t, "3", field(embed, "Puntos").Value)
	assert.Equal(t, "spam", field(embed, "Razón").Value)
	require.NotNil(t, embed.Footer)
	assert.Contains(t, embed.Footer.Text, "10 puntos")
}

func TestNoticeEmbedBan(t *testing.T) {
	permanent := NoticeEmbed(moderation.Notice{Kind: moderation.NoticeBan, GuildName: "Pancy", Reason: "raid"})
	require.NotNil(t, field(permanent, "Duración"))
	assert.Nil(t, field(permanent, "Hasta"))

	until := time.Unix(1700000000, 0)
	timed := NoticeEmbed(moderation.Notice{Kind: moderation.NoticeBan, GuildName: "Pancy", Reason: "raid", Until: &until})
	assert.Nil(t, field(timed, "Duración"))
	require.NotNil(t, field(timed, "Hasta"))
	assert.Equal(t, "<t:1700000000:F>", field(timed, "Hasta").Value)
}
