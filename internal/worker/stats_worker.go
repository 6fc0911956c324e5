package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"orderdesk/internal/service"
)

// StatsWorker periodically publishes the number of orders per status.
type StatsWorker struct {
	orderSvc *service.OrderService
	gauge    *prometheus.GaugeVec
	interval time.Duration
}

func NewStatsWorker(orderSvc *service.OrderService, gauge *prometheus.GaugeVec, interval time.Duration) *StatsWorker {
	return &StatsWorker{
		orderSvc: orderSvc,
		gauge:    gauge,
		interval: interval,
	}
}

func (w *StatsWorker) Start(ctx context.Context) {
	slog.Info("starting stats worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.refresh(ctx); err != nil {
		slog.Error("stats refresh failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("stats worker stopped")
			return
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				slog.Error("stats refresh failed", "error", err)
			}
		}
	}
}

func (w *StatsWorker) refresh(ctx context.Context) error {
	counts, err := w.orderSvc.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}

	for status, n := range counts {
		w.gauge.WithLabelValues(string(status)).Set(float64(n))
	}
	slog.Debug("order stats refreshed", "counts", counts)
	return nil
}
