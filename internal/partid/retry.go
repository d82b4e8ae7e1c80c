package partid

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultAttempts is how many times a filesystem lookup is tried
	// before it is reported as absent.
	DefaultAttempts = 10
	// DefaultDelay is the pause between attempts.
	DefaultDelay = time.Millisecond
)

// errNoValue marks an attempt that produced nothing and may be retried.
var errNoValue = errors.New("no value")

// attempt calls op until it reports a value or attempts are exhausted,
// sleeping delay between calls. The last result is returned.
func attempt[T any](attempts int, delay time.Duration, op func() (T, bool), notify func(try int)) (T, bool) {
	if attempts <= 1 {
		return op()
	}

	try := 0
	v, err := backoff.RetryNotifyWithData[T](func() (T, error) {
		try++
		v, ok := op()
		if !ok {
			return v, errNoValue
		}
		return v, nil
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(attempts-1)), func(error, time.Duration) {
		if notify != nil {
			notify(try)
		}
	})
	return v, err == nil
}
