package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var warnsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancymod_ledger_entries",
	Help: "Number of ledger entries recorded, by kind (warn, pardon)",
}, []string{"kind"})

var breachesDetected = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pancymod_threshold_breaches",
	Help: "Number of unconsumed thresholds reached",
})

var breachOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancymod_breach_outcomes",
	Help: "Outcome of threshold breaches offered for confirmation",
}, []string{"outcome"})

var punishmentsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancymod_punishments",
	Help: "Number of punishments applied, by kind and source",
}, []string{"kind", "source"})

var offencesPardoned = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pancymod_offences_pardoned",
	Help: "Number of offences marked pardoned by reconciliation",
})
