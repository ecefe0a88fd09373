// Package debug holds diagnostics enabled by the debug flag.
package debug

import (
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// StartRuntimeLogger logs goroutine count and memory figures every interval
// until the returned stop func is called. Request goroutines from the
// dispatcher show up here when the backend hangs.
func StartRuntimeLogger(interval time.Duration, logger *slog.Logger) (stop func()) {
	if interval <= 0 {
		interval = time.Second
	}
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for {
			select {
			case <-done:
				return
			case <-t.C:
			}
			logRuntime(logger, samples)
		}
	}()
	return func() { close(done) }
}

func logRuntime(logger *slog.Logger, samples []metrics.Sample) {
	metrics.Read(samples)
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	logger.Debug("runtime-stats",
		slog.Uint64("goroutines", samples[0].Value.Uint64()),
		slog.Uint64("heap_alloc", ms.HeapAlloc),
		slog.Uint64("heap_objects", ms.HeapObjects),
		slog.Uint64("stack_inuse", ms.StackInuse),
		slog.Uint64("num_gc", uint64(ms.NumGC)),
	)
}
