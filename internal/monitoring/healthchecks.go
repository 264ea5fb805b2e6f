package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// HealthChecker is implemented by sources that can be probed cheaply.
type HealthChecker interface {
	Name() string
	HealthCheck(ctx context.Context) bool
}

// MonitorHealth probes checker every interval and stores the result in
// healthy until ctx is done. The first probe runs immediately.
func MonitorHealth(ctx context.Context, checker HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	probe := func() {
		probeCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		isHealthy := checker.HealthCheck(probeCtx)
		if was := healthy.Swap(isHealthy); was != isHealthy {
			if isHealthy {
				slog.Info("[HealthCheck] Source recovered", slog.String("source", checker.Name()))
			} else {
				slog.Warn("[HealthCheck] Source is unhealthy", slog.String("source", checker.Name()))
			}
		}
	}

	probe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}
