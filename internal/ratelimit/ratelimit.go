package ratelimit

import (
	"context"
	"fmt"

	"github.com/S-Stepanov-1/contacts-api/internal/domain"
)

// Limiter admits or rejects a request for the given key under a fixed-window
// policy. Allow counts the request and returns domain.ErrTooManyRequests once
// the window's ceiling is reached. The check-and-increment is atomic: two
// concurrent calls at the ceiling can never both be admitted.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

func exceeded(key string) error {
	return fmt.Errorf("rate limit exceeded for %s: %w", key, domain.ErrTooManyRequests)
}
