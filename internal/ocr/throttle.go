package ocr

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Throttled gates an Engine behind a concurrency cap and an optional page
// rate. With several document workers, OCR is the memory- and CPU-heavy
// step, so it is capped independently of the worker count.
type Throttled struct {
	next    Engine
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// NewThrottled wraps next. maxConcurrent <= 0 means one page at a time;
// pagesPerSecond <= 0 disables rate limiting.
func NewThrottled(next Engine, maxConcurrent int64, pagesPerSecond float64) *Throttled {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	t := &Throttled{
		next: next,
		sem:  semaphore.NewWeighted(maxConcurrent),
	}
	if pagesPerSecond > 0 {
		burst := int(pagesPerSecond)
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(pagesPerSecond), burst)
	}
	return t
}

func (t *Throttled) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("ocr capacity: %w", err)
	}
	defer t.sem.Release(1)

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("ocr rate: %w", err)
		}
	}
	return t.next.Recognize(ctx, img)
}
