package clients

import (
	"context"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/shell"
)

// AuditSinkClient implements shell.AuditSink against the audit service's HTTP
// API, same fire-and-forget contract as the notifier.
type AuditSinkClient struct {
	baseClient
}

var _ shell.AuditSink = AuditSinkClient{}

// NewAuditSinkClient creates an audit sink client for the given base URL.
func NewAuditSinkClient(baseURL string, options ...ClientOption) AuditSinkClient {
	return AuditSinkClient{baseClient: newBaseClient(baseURL, options...)}
}

type auditEntryRequest struct {
	Category    string `json:"category"`
	ActorID     string `json:"actor_id"`
	TargetID    string `json:"target_id"`
	Description string `json:"description"`
}

// Record appends one entry to the audit trail.
func (c AuditSinkClient) Record(ctx context.Context, category string, actorID uuid.UUID, targetID uuid.UUID, description string) error {
	return c.postJSON(ctx, "/audit-entries", auditEntryRequest{
		Category:    category,
		ActorID:     actorID.String(),
		TargetID:    targetID.String(),
		Description: description,
	}, nil)
}
