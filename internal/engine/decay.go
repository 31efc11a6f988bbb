package engine

// Decay runs on a fixed ticker, independent of syncs and of whether anyone is
// watching. Each tick lowers every skill present at that instant by
// decay_rate*100 points, floored at 0. The arithmetic is done by a single
// UPDATE under the store lock so a tick never interleaves with a boost.

import (
	"time"

	"go.uber.org/zap"
)

// DecayOnce applies a single decay tick to every stored skill.
func (e *Engine) DecayOnce() (int, error) {
	return e.DB.DecayAll()
}

// StartDecayTimer applies a decay tick every DecayInterval until Stop.
// The first tick fires one interval after the call.
func (e *Engine) StartDecayTimer() {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ticker := time.NewTicker(e.opts.DecayInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				updated, err := e.DecayOnce()
				if err != nil {
					e.logger.Error("decay tick failed", zap.Error(err))
					continue
				}
				e.logger.Debug("decay tick", zap.Int("updated", updated))
			case <-e.stopCh:
				return
			}
		}
	}()
	e.logger.Info("decay timer started", zap.Duration("interval", e.opts.DecayInterval))
}
