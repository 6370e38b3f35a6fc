package insights

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

type Probes interface {
	ListenAndServe()
	Shutdown()
	Handler() http.Handler
}

type probesImpl struct {
	isConnected func() bool
	registry    *prometheus.Registry
	server      *http.Server
}

// Metrics counts what the extraction tasks did; it is fed through observer events.
type Metrics struct {
	postsSaved   *prometheus.CounterVec
	itemFailures *prometheus.CounterVec
	taskRuns     *prometheus.CounterVec
	taskRetries  *prometheus.CounterVec
}
