package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var gatewayConnected = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "pancymod_gateway_connected",
	Help: "1 while the Discord gateway session is up.",
})

var gatewayDisconnects = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pancymod_gateway_disconnects_total",
	Help: "Gateway disconnections.",
})

var guildsJoined = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancymod_guild_membership_changes_total",
	Help: "Guilds the bot joined or left, by direction.",
}, []string{"direction"})
