package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// staleResponses tracks results dropped because the query moved on.
var staleResponses = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pokedex_query_stale_responses_total",
	Help: "Total number of fetch results discarded after the query input changed",
}, []string{"kind"})
