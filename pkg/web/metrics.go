package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pancymod_http_requests",
	Help: "HTTP requests served by the API, by method, route and status",
}, []string{"method", "route", "status"})
