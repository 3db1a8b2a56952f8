package clients

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/shell"
)

// NotifierClient implements shell.Notifier against the notification gateway's
// HTTP API. Delivery is fire-and-forget from the engine's point of view; the
// dispatcher logs failures and moves on.
type NotifierClient struct {
	baseClient
}

var _ shell.Notifier = NotifierClient{}

// NewNotifierClient creates a notifier client for the given base URL.
func NewNotifierClient(baseURL string, options ...ClientOption) NotifierClient {
	return NotifierClient{baseClient: newBaseClient(baseURL, options...)}
}

type notificationRequest struct {
	PatronID string `json:"patron_id"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

// Send delivers one notification to the patron.
func (c NotifierClient) Send(ctx context.Context, patronID uuid.UUID, message string, category string) error {
	return c.postJSON(ctx, "/notifications", notificationRequest{
		PatronID: patronID.String(),
		Message:  message,
		Category: category,
	}, nil)
}
