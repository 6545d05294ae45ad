package utils

import (
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUptimeString(t *testing.T) {
	assert.Equal(t, "42s", uptimeString(42*time.Second+300*time.Millisecond))
	assert.Equal(t, "1d 2h 3m", uptimeString(26*time.Hour+3*time.Minute+59*time.Second))
}

func TestStatsFields(t *testing.T) {
	fields := statsFields(snapshot{allocBytes: 3 * 1024 * 1024, goroutines: 12, cpus: 4, uptime: time.Hour, guilds: 2, members: 150})
	require.Len(t, fields, 8)
	assert.Equal(t, "3.00 MB", fields[3].Value)
	assert.Equal(t, "12 Goroutines / 4 CPUs", fields[4].Value)
	assert.Equal(t, "1h", fields[5].Value)
	assert.Equal(t, "150", fields[7].Value)
}

type fakeStorage struct{}

func (fakeStorage) GetStatus() (string, bool) { return "🟢 | En memoria", true }

func TestUtilsCommandsRegistered(t *testing.T) {
	client := &discord.ExtendedClient{Commands: discord.NewCommandCollection()}
	client.CommandHandler = discord.NewCommandHandler(client)

	RegisterUtilsCommands(client, fakeStorage{})

	for _, name := range []string{"ping", "status", "help", "stats"} {
		_, ok := client.Commands.Get("utils." + name)
		assert.True(t, ok, name)
	}
	assert.Nil(t, client.CommandHandler.Commands()[0].DefaultMemberPermissions)
}
