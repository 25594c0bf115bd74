package ports

import "context"

// Notifier defines the interface for delivering alert text to the single
// configured destination. The destination and credential are fixed adapter
// configuration, not call parameters.
type Notifier interface {
	// Send delivers the message body. When silent is set the delivery is
	// requested without a client-side notification sound (used for
	// threshold-only alerts).
	Send(ctx context.Context, text string, silent bool) error
}
