package monitoring

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type flakyChecker struct {
	healthy atomic.Bool
	probes  atomic.Int32
}

func (f *flakyChecker) Name() string { return "summarizer" }

func (f *flakyChecker) HealthCheck(context.Context) bool {
	f.probes.Add(1)
	return f.healthy.Load()
}

func TestMonitorHealth(t *testing.T) {
	defer goleak.VerifyNone(t)

	checker := &flakyChecker{}
	healthy := &atomic.Bool{}
	healthy.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		MonitorHealth(ctx, checker, healthy, 10*time.Millisecond)
	}()

	assert.Eventually(t, func() bool { return !healthy.Load() }, time.Second, 5*time.Millisecond)

	checker.healthy.Store(true)
	assert.Eventually(t, healthy.Load, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.GreaterOrEqual(t, checker.probes.Load(), int32(2))
}
