package inbox

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shareareview/notify-api/internal/models"
)

// Notifier delivers a persisted notification over an external channel.
// Delivery is best-effort: failures are logged by the service, never
// surfaced to the caller, and the in-app notification is already stored.
type Notifier interface {
	Notify(ctx context.Context, recipient models.User, notification models.Notification) error
}

func logNotifyError(logger zerolog.Logger, err error, channel string, notif models.Notification) {
	if err == nil {
		return
	}
	logger.Warn().
		Err(err).
		Int64("notification_id", notif.ID).
		Int64("recipient_id", notif.RecipientID).
		Str("type", string(notif.Type)).
		Str("channel", channel).
		Msg("failed to deliver notification")
}

func notifierChannelName(n Notifier) string {
	type named interface {
		String() string
	}
	if v, ok := n.(named); ok {
		return v.String()
	}
	return fmt.Sprintf("%T", n)
}
