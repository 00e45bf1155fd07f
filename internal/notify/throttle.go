package notify

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Throttled spaces sends on the wrapped channel to a steady rate.
type Throttled struct {
	Channel
	limiter *rate.Limiter
}

func Throttle(ch Channel, perSecond float64, burst int) *Throttled {
	if burst < 1 {
		burst = 1
	}
	return &Throttled{Channel: ch, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (t *Throttled) Send(ctx context.Context, msg Message) (Receipt, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return Receipt{}, fmt.Errorf("waiting for send slot: %w", err)
	}
	return t.Channel.Send(ctx, msg)
}
