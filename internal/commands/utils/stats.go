package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/timeparse"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the /utils stats subcommand
func createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Muestra estadísticas del bot",
		"utils",
		statsHandler,
	)
}

// snapshot is what /utils stats shows
type snapshot struct {
	allocBytes uint64
	goroutines int
	cpus       int
	uptime     time.Duration
	guilds     int
	members    int
}

func takeSnapshot(client *discord.ExtendedClient) snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s := snapshot{
		allocBytes: m.Alloc,
		goroutines: runtime.NumGoroutine(),
		cpus:       runtime.NumCPU(),
		uptime:     time.Since(client.StartTime),
		guilds:     client.GuildCount(),
	}
	if state := client.Session.State; state != nil {
		state.RLock()
		for _, g := range state.Guilds {
			s.members += g.MemberCount
		}
		state.RUnlock()
	}
	return s
}

// uptimeString drops the seconds once the bot has been up for a minute
func uptimeString(d time.Duration) string {
	if d >= time.Minute {
		d = d.Truncate(time.Minute)
	} else {
		d = d.Truncate(time.Second)
	}
	return timeparse.Format(d)
}

func statsFields(s snapshot) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{Name: "🤖 Versión del Bot", Value: config.Version, Inline: true},
		{Name: "🐹 Versión de Go", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
		{Name: "📚 Versión de DiscordGo", Value: discordgo.VERSION, Inline: true},
		{Name: "🖥 Uso de RAM", Value: fmt.Sprintf("%.2f MB", float64(s.allocBytes)/1024/1024), Inline: true},
		{Name: "⚙️ Goroutines", Value: fmt.Sprintf("%d Goroutines / %d CPUs", s.goroutines, s.cpus), Inline: true},
		{Name: "⏱ Uptime", Value: uptimeString(s.uptime), Inline: true},
		{Name: "🏠 Guilds", Value: fmt.Sprintf("%d", s.guilds), Inline: true},
		{Name: "👥 Miembros", Value: fmt.Sprintf("%d", s.members), Inline: true},
	}
}

// statsHandler handles the /utils stats command
func statsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		embed := &discordgo.MessageEmbed{
			Title:     "📊 Estadísticas del Bot",
			Color:     0x5865F2,
			Fields:    statsFields(takeSnapshot(ctx.Client)),
			Timestamp: time.Now().Format(time.RFC3339),
			Footer:    &discordgo.MessageEmbedFooter{Text: "💫 - Developed by PancyStudios"},
		}
		if u := ctx.Session.State.User; u != nil {
			embed.Footer.IconURL = u.AvatarURL("")
		}
		ctx.ReplyEmbed(embed)
	}()
	return nil
}
