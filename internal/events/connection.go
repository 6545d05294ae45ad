package events

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterConnectionEvents tracks the gateway connection
func RegisterConnectionEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnDisconnect(onDisconnect)
	client.EventHandler.OnResumed(onResumed)
}

func onDisconnect(s *discordgo.Session, _ *discordgo.Disconnect) {
	gatewayConnected.Set(0)
	gatewayDisconnects.Inc()
	logger.Warn(fmt.Sprintf("🔌 Shard %d desconectado.", s.ShardID), "Gateway")
}

func onResumed(s *discordgo.Session, _ *discordgo.Resumed) {
	gatewayConnected.Set(1)
	logger.Success(fmt.Sprintf("✅ Shard %d reanudado.", s.ShardID), "Gateway")
}
