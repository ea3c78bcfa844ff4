// Package inbox implements the notification core: the folder registry,
// the notification store and the view aggregator consumed by the API
// layer. All operations take the acting user id explicitly; ownership
// checks happen here, never in the handlers.
package inbox

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shareareview/notify-api/internal/apperr"
)

// bound caps a persistence call with the configured query timeout. A
// non-positive timeout leaves the caller's context untouched.
func bound(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// storeErr classifies persistence failures: deadline expiry becomes a
// timeout error, everything else is wrapped unclassified.
func storeErr(err error, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindTimeout, err, msg)
	}
	return errors.Wrap(err, msg)
}
