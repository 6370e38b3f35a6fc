package insights

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"twitter-etl/models/constants"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const shutdownTimeout = 5 * time.Second

func NewProbes(isConnected func() bool, registry *prometheus.Registry) Probes {
	probes := &probesImpl{
		isConnected: isConnected,
		registry:    registry,
	}
	probes.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", viper.GetInt(constants.ProbePort)),
		Handler:           probes.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return probes
}

func (p *probesImpl) Handler() http.Handler {
	router := chi.NewRouter()
	router.Get("/health", p.health)
	router.Handle("/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	return router
}

// ListenAndServe blocks until Shutdown is called.
func (p *probesImpl) ListenAndServe() {
	log.Info().Msgf("Probes listening on %s", p.server.Addr)
	if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Probes stopped unexpectedly")
	}
}

func (p *probesImpl) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := p.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Cannot shutdown probes, continuing...")
	}
}

func (p *probesImpl) health(w http.ResponseWriter, _ *http.Request) {
	if !p.isConnected() {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
