// Package failhandover implements the desk workflow for a pickup that could
// not be completed: the patron showed up but the copy could not be handed
// over, for example because it was found damaged at the desk.
//
// The reservation moves to handover_failed and the copy is released back to
// the available pool, announcing it to the waitlist cascade. Unlike an
// expiry, a failed handover carries no reputation penalty; the patron did
// nothing wrong.
package failhandover
