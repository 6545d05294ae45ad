package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sweepCycles = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pancymod_sweep_cycles",
	Help: "Number of pending sanction sweeps run",
})

var sanctionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancymod_sanctions_processed",
	Help: "Pending sanctions handled by the sweeper, by result",
}, []string{"result"})
