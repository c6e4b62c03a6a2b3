package refresh

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "recall",
	Subsystem: "sync",
	Name:      "runs_total",
	Help:      "Completed cache refresh runs by result (ok, fetch_error).",
}, []string{"result"})
