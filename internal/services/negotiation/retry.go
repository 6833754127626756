package negotiation

// withRetry runs fn up to maxAttempts times, stopping early on success or
// on the first error that isRetryable rejects. Returns the last error when
// attempts run out.
func withRetry(maxAttempts int, isRetryable func(error) bool, fn func(attempt int) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn(attempt)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
	}
	return err
}
