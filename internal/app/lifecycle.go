package app

import (
	"sync"

	"granny-viewer/internal/logger"
)

type Lifecycle struct {
	frames *FrameLoop
	logger logger.Logger
	once   sync.Once
}

func NewLifecycle(frames *FrameLoop, log logger.Logger) *Lifecycle {
	return &Lifecycle{
		frames: frames,
		logger: log,
	}
}

// Shutdown stops the frame loop so no update runs after the window is
// gone. Later calls do nothing.
func (l *Lifecycle) Shutdown() {
	l.once.Do(func() {
		l.logger.Info("Lifecycle", "shutdown sequence initiated", nil)

		if l.frames != nil {
			l.frames.Stop()
			l.logger.Debug("Lifecycle", "frame loop stopped", nil)
		}

		l.logger.Info("Lifecycle", "shutdown sequence completed", nil)
	})
}
