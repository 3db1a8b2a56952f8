package testdoubles

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lendkit/circulation-go/core"
)

// CatalogStub serves catalog facts from a fixed map of item to circulating
// copy count.
type CatalogStub struct {
	mu    sync.Mutex
	items map[uuid.UUID]int
}

// NewCatalogStub creates an empty catalog stub.
func NewCatalogStub() *CatalogStub {
	return &CatalogStub{items: make(map[uuid.UUID]int)}
}

// AddItem registers an item with the given circulating copy count.
func (c *CatalogStub) AddItem(itemID uuid.UUID, copies int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[itemID] = copies
}

// ItemExists implements the catalog contract.
func (c *CatalogStub) ItemExists(_ context.Context, itemID uuid.UUID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[itemID]

	return ok, nil
}

// ActiveCopyCount implements the catalog contract.
func (c *CatalogStub) ActiveCopyCount(_ context.Context, itemID uuid.UUID) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.items[itemID], nil
}

// PatronDirectoryStub serves patron standings from a fixed map and applies
// reputation adjustments with the zero floor, recording every adjustment.
type PatronDirectoryStub struct {
	mu          sync.Mutex
	standings   map[uuid.UUID]core.PatronStanding
	adjustments []ReputationAdjustment
	lookupErr   error
}

// ReputationAdjustment is one recorded AdjustReputation call.
type ReputationAdjustment struct {
	PatronID uuid.UUID
	Delta    int
	NewValue int
}

// NewPatronDirectoryStub creates an empty directory stub.
func NewPatronDirectoryStub() *PatronDirectoryStub {
	return &PatronDirectoryStub{standings: make(map[uuid.UUID]core.PatronStanding)}
}

// SetStanding registers or replaces a patron's standing.
func (d *PatronDirectoryStub) SetStanding(patronID uuid.UUID, standing core.PatronStanding) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.standings[patronID] = standing
}

// FailLookupsWith makes every GetPatronStanding call return err.
func (d *PatronDirectoryStub) FailLookupsWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lookupErr = err
}

// GetPatronStanding implements the directory contract. Unknown patrons are
// reported as inactive rather than an error.
func (d *PatronDirectoryStub) GetPatronStanding(_ context.Context, patronID uuid.UUID) (core.PatronStanding, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lookupErr != nil {
		return core.PatronStanding{}, d.lookupErr
	}

	return d.standings[patronID], nil
}

// AdjustReputation implements the directory contract with the zero floor.
func (d *PatronDirectoryStub) AdjustReputation(_ context.Context, patronID uuid.UUID, delta int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	standing := d.standings[patronID]
	standing.ReputationIndex = core.ClampReputation(standing.ReputationIndex, delta)
	d.standings[patronID] = standing

	d.adjustments = append(d.adjustments, ReputationAdjustment{
		PatronID: patronID,
		Delta:    delta,
		NewValue: standing.ReputationIndex,
	})

	return standing.ReputationIndex, nil
}

// Adjustments returns a copy of all recorded reputation adjustments.
func (d *PatronDirectoryStub) Adjustments() []ReputationAdjustment {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]ReputationAdjustment(nil), d.adjustments...)
}

// NotifierSpy records notification sends and can be told to fail.
type NotifierSpy struct {
	mu      sync.Mutex
	sent    []SentNotification
	sendErr error
}

// SentNotification is one recorded Send call.
type SentNotification struct {
	PatronID uuid.UUID
	Message  string
	Category string
}

// NewNotifierSpy creates a notifier spy.
func NewNotifierSpy() *NotifierSpy {
	return &NotifierSpy{}
}

// FailWith makes every Send call return err. Sends are still recorded.
func (n *NotifierSpy) FailWith(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.sendErr = err
}

// Send implements the notification gateway contract.
func (n *NotifierSpy) Send(_ context.Context, patronID uuid.UUID, message string, category string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.sent = append(n.sent, SentNotification{PatronID: patronID, Message: message, Category: category})

	return n.sendErr
}

// Sent returns a copy of all recorded notifications.
func (n *NotifierSpy) Sent() []SentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]SentNotification(nil), n.sent...)
}

// SentTo returns the notifications recorded for one patron.
func (n *NotifierSpy) SentTo(patronID uuid.UUID) []SentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []SentNotification
	for _, s := range n.sent {
		if s.PatronID == patronID {
			out = append(out, s)
		}
	}

	return out
}

// AuditSinkSpy records audit entries.
type AuditSinkSpy struct {
	mu      sync.Mutex
	records []AuditRecord
}

// AuditRecord is one recorded Record call.
type AuditRecord struct {
	Category    string
	ActorID     uuid.UUID
	TargetID    uuid.UUID
	Description string
}

// NewAuditSinkSpy creates an audit sink spy.
func NewAuditSinkSpy() *AuditSinkSpy {
	return &AuditSinkSpy{}
}

// Record implements the audit sink contract.
func (a *AuditSinkSpy) Record(_ context.Context, category string, actorID uuid.UUID, targetID uuid.UUID, description string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records = append(a.records, AuditRecord{
		Category:    category,
		ActorID:     actorID,
		TargetID:    targetID,
		Description: description,
	})

	return nil
}

// Records returns a copy of all recorded audit entries.
func (a *AuditSinkSpy) Records() []AuditRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]AuditRecord(nil), a.records...)
}

// CategoriesRecorded returns the categories in recording order.
func (a *AuditSinkSpy) CategoriesRecorded() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, 0, len(a.records))
	for _, r := range a.records {
		out = append(out, r.Category)
	}

	return out
}
