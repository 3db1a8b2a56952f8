package core

import "errors"

// The error taxonomy surfaced by command handlers. All of these are terminal,
// user-visible failures: the transport layer maps them to responses and no
// internal retry is attempted for them.
var (
	// ErrNotFound indicates an unknown request, reservation, record, copy, or waitlist entry ID.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidState indicates an operation attempted from a non-permissible status,
	// such as approving a request that is not pending.
	ErrInvalidState = errors.New("operation not permitted in current state")

	// ErrNoCopyAvailable indicates no copy of the requested item is currently available.
	ErrNoCopyAvailable = errors.New("no copy available for item")

	// ErrItemUnavailable indicates the catalog item has no circulating copies configured at all.
	ErrItemUnavailable = errors.New("item has no circulating copies")

	// ErrInvalidSecret indicates the presented pickup secret did not match the reservation.
	ErrInvalidSecret = errors.New("pickup secret does not match")

	// ErrIneligiblePatron indicates a patron failed a reputation, standing, or borrow-limit check.
	ErrIneligiblePatron = errors.New("patron is not eligible")

	// ErrPolicyUnavailable indicates the policy collaborator could not supply a policy snapshot.
	ErrPolicyUnavailable = errors.New("circulation policy unavailable")
)
