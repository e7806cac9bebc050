package ticket

import (
	"context"
	"log/slog"

	"github.com/jo-hoe/ambitions/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ambitions_ticket_render_seconds",
		Help:    "Time spent rendering ticket PNGs",
		Buckets: prometheus.DefBuckets,
	})
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ambitions_ticket_cache_lookups_total",
		Help: "Ticket cache lookups by result",
	}, []string{"result"})
)

// Cache stores rendered tickets by record id. Records never change once
// added, so entries need no invalidation.
type Cache interface {
	Get(ctx context.Context, id int64) ([]byte, bool, error)
	Set(ctx context.Context, id int64, png []byte) error
}

type Service struct {
	renderer *Renderer
	cache    Cache
}

// NewService wraps renderer; cache may be nil.
func NewService(renderer *Renderer, cache Cache) *Service {
	return &Service{renderer: renderer, cache: cache}
}

func (s *Service) Renderer() *Renderer {
	return s.renderer
}

// Ticket returns the PNG for ambition, rendering it on a cache miss.
// Cache failures are logged and otherwise ignored.
func (s *Service) Ticket(ctx context.Context, ambition core.Ambition) ([]byte, error) {
	if s.cache != nil {
		data, found, err := s.cache.Get(ctx, ambition.ID)
		switch {
		case err != nil:
			cacheLookups.WithLabelValues("error").Inc()
			slog.Warn("ticket cache lookup failed", "id", ambition.ID, "error", err)
		case found:
			cacheLookups.WithLabelValues("hit").Inc()
			return data, nil
		default:
			cacheLookups.WithLabelValues("miss").Inc()
		}
	}

	timer := prometheus.NewTimer(renderDuration)
	data, err := s.renderer.Render(ambition)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ambition.ID, data); err != nil {
			slog.Warn("failed to cache ticket", "id", ambition.ID, "error", err)
		}
	}
	return data, nil
}
