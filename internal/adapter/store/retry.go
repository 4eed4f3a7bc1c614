package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/ablackcat04/software-studio-final/internal/domain"
	"github.com/ablackcat04/software-studio-final/internal/port"
)

// CommitWithRetry runs commit up to policy.MaxRetries times. Only contention
// is retried, sleeping policy.Backoff(attempt) between tries; any other
// failure is returned immediately wrapping domain.ErrStoreUnrecoverable.
// Exhausting the retries escalates to an unrecoverable failure too.
func CommitWithRetry(policy port.RetryPolicy, commit func() error) error {
	var lastErr error
	for attempt := 0; attempt < policy.MaxRetries; attempt++ {
		err := commit()
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrStoreContention) {
			if errors.Is(err, domain.ErrStoreUnrecoverable) {
				return err
			}
			return fmt.Errorf("%w: %v", domain.ErrStoreUnrecoverable, err)
		}
		lastErr = err
		time.Sleep(policy.Backoff(attempt))
	}
	return fmt.Errorf("%w: commit still contended after %d attempts: %v", domain.ErrStoreUnrecoverable, policy.MaxRetries, lastErr)
}
