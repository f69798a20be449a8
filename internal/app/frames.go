package app

import (
	"context"
	"sync"
	"time"

	"granny-viewer/internal/logger"
)

// FrameLoop calls tick at a fixed interval until stopped.
type FrameLoop struct {
	interval time.Duration
	tick     func()
	logger   logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewFrameLoop(interval time.Duration, tick func(), log logger.Logger) *FrameLoop {
	return &FrameLoop{
		interval: interval,
		tick:     tick,
		logger:   log,
	}
}

// Start launches the loop. Starting a running loop does nothing.
func (f *FrameLoop) Start(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		return
	}

	ctx, f.cancel = context.WithCancel(ctx)
	f.done = make(chan struct{})

	go f.run(ctx, f.done)

	f.logger.Debug("FrameLoop", "started", map[string]interface{}{
		"interval": f.interval.String(),
	})
}

func (f *FrameLoop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.tick()
		}
	}
}

// Stop halts the loop and waits for the goroutine to exit.
func (f *FrameLoop) Stop() {
	f.mu.Lock()
	cancel, done := f.cancel, f.done
	f.cancel, f.done = nil, nil
	f.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	f.logger.Debug("FrameLoop", "stopped", nil)
}

// Shutdown implements shutdown.Shutdownable.
func (f *FrameLoop) Shutdown() {
	f.Stop()
}
