package utils

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Purger is a token storage that can drop its own expired entries.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// StartTokenPurger periodically removes expired tokens in the background.
// It is best-effort and logs failures. Call the returned func to stop it.
func StartTokenPurger(p Purger, interval time.Duration) func() {
	if interval <= 0 {
		interval = time.Hour
	}
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := p.PurgeExpired(ctx)
			cancel()
			if err != nil {
				Logger.Warn("token purger failed", zap.Error(err))
				continue
			}
			if n > 0 {
				Logger.Info("purged expired tokens", zap.Int64("count", n))
			}
		}
	}()
	return func() { close(stop) }
}
