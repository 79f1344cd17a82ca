package kafka

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewActivityCounter returns a handler that counts consumed events by type
func NewActivityCounter(reg prometheus.Registerer) EventHandler {
	events := promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipe_events_consumed_total",
			Help: "Total number of recipe events consumed",
		},
		[]string{"event_type"},
	)
	return func(_ context.Context, event RecipeEvent) error {
		events.WithLabelValues(event.EventType).Inc()
		return nil
	}
}
