package test

import (
	"sync/atomic"

	"go.uber.org/fx"
)

// LifecycleRecorder collects hooks instead of running them, so tests can
// invoke OnStart/OnStop directly.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub counts shutdown requests and optionally signals Called.
type ShutdownerStub struct {
	Called chan struct{}
	count  atomic.Int32
}

func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	s.count.Add(1)
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}

// Shutdowns reports how many times Shutdown was requested.
func (s *ShutdownerStub) Shutdowns() int {
	return int(s.count.Load())
}
