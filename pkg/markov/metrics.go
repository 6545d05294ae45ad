package markov

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var trigramsIngested = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pancymod_markov_trigrams_ingested",
	Help: "Number of trigrams appended to guild corpora",
})

var sentencesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancymod_markov_sentences",
	Help: "Number of sentence generation requests by result",
}, []string{"result"})
