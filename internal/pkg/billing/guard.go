package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/lnking/lnking/internal/pkg/cache"
)

const (
	processedEventKeyPrefix = "lnking_sale_events:invoiceId:"
	processedEventTTL       = 7 * 24 * time.Hour
)

// ProcessedEventGuard is the create-if-absent barrier that keeps redelivered
// webhooks from duplicating side effects. Acquire reports true exactly once
// per reference within the TTL window, even under concurrent delivery.
type ProcessedEventGuard interface {
	Acquire(ctx context.Context, providerRef string) (bool, error)
}

type redisGuard struct{}

// NewRedisGuard returns the guard backed by the shared cache client.
func NewRedisGuard() ProcessedEventGuard {
	return redisGuard{}
}

func (redisGuard) Acquire(ctx context.Context, providerRef string) (bool, error) {
	ok, err := cache.SetNX(ctx, processedEventKeyPrefix+providerRef, 1, processedEventTTL)
	if err != nil {
		return false, fmt.Errorf("processed-event guard: %w", err)
	}
	return ok, nil
}
