package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestShouldIngest(t *testing.T) {
	user := &discordgo.User{ID: "1"}
	bot := &discordgo.User{ID: "2", Bot: true}

	tests := []struct {
		name string
		msg  *discordgo.Message
		want bool
	}{
		{"plain message", &discordgo.Message{Author: user, GuildID: "g", Content: "hola a todos"}, true},
		{"bot", &discordgo.Message{Author: bot, GuildID: "g", Content: "hola"}, false},
		{"direct message", &discordgo.Message{Author: user, Content: "hola"}, false},
		{"empty", &discordgo.Message{Author: user, GuildID: "g", Content: "   "}, false},
		{"prefix command", &discordgo.Message{Author: user, GuildID: "g", Content: "-ping"}, false},
		{"no author", &discordgo.Message{GuildID: "g", Content: "hola"}, false},
		{"bot mention command", &discordgo.Message{Author: user, GuildID: "g", Content: "<@99> generate"}, false},
		{"bot nickname mention command", &discordgo.Message{Author: user, GuildID: "g", Content: " <@!99> generate"}, false},
		{"other user mention", &discordgo.Message{Author: user, GuildID: "g", Content: "<@5> qué tal"}, true},
		{"bot mentioned later", &discordgo.Message{Author: user, GuildID: "g", Content: "gracias <@99>"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldIngest(tt.msg, "-", "99"))
		})
	}

	assert.True(t, shouldIngest(&discordgo.Message{Author: user, GuildID: "g", Content: "-ping"}, "", ""))
}

func TestMentionsUser(t *testing.T) {
	m := &discordgo.Message{Mentions: []*discordgo.User{{ID: "a"}, {ID: "b"}}}
	assert.True(t, mentionsUser(m, "b"))
	assert.False(t, mentionsUser(m, "c"))
}

func TestFreshJoin(t *testing.T) {
	now := time.Now()
	assert.True(t, freshJoin(now.Add(-2*time.Second), now))
	assert.False(t, freshJoin(now.Add(-time.Hour), now))
}

type recordingIngester struct {
	calls []string
	err   error
}

func (r *recordingIngester) IngestMessage(_ context.Context, guildID, channelID, text string) (int, error) {
	r.calls = append(r.calls, guildID+"/"+channelID+"/"+text)
	return 3, r.err
}

func TestOnMessageCreateIngests(t *testing.T) {
	s := &discordgo.Session{}
	ing := &recordingIngester{}

	onMessageCreate(s, &discordgo.MessageCreate{Message: &discordgo.Message{
		Author: &discordgo.User{ID: "1"}, GuildID: "g", ChannelID: "c", Content: "el gato duerme",
	}}, ing, "-")
	onMessageCreate(s, &discordgo.MessageCreate{Message: &discordgo.Message{
		Author: &discordgo.User{ID: "1", Bot: true}, GuildID: "g", ChannelID: "c", Content: "beep",
	}}, ing, "-")

	assert.Equal(t, []string{"g/c/el gato duerme"}, ing.calls)

	ing.err = errors.New("mongo down")
	assert.NotPanics(t, func() {
		onMessageCreate(s, &discordgo.MessageCreate{Message: &discordgo.Message{
			Author: &discordgo.User{ID: "1"}, GuildID: "g", ChannelID: "c", Content: "otra frase",
		}}, ing, "-")
	})
}

func TestRegisterAllGoesThroughEventHandler(t *testing.T) {
	client := &discord.ExtendedClient{Session: &discordgo.Session{}, Components: discord.NewComponentRouter()}
	client.EventHandler = discord.NewEventHandler(client)

	RegisterAll(client, &recordingIngester{}, "-")

	// ready, disconnect, resumed, guild create, guild delete, message, interaction
	assert.Equal(t, 7, client.EventHandler.Count())
}
