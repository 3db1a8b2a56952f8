// Package waitlistcascade implements the re-offer of a freed copy to the
// item's waitlist.
//
// Whenever a copy transitions to available (return, cancellation, expiry) the
// processor walks the queue oldest-first, re-checks each patron's eligibility,
// and converts the first eligible entry into a reservation bound directly to
// the freed copy. Ineligible entries are notified and retained, keeping their
// place for the next freed copy. Exactly one patron can claim one freed copy;
// processing stops on the first successful conversion.
//
// Failures are isolated per candidate: a broken patron lookup or a failed
// claim transaction notifies that patron and moves on to the next entry
// instead of aborting the whole cascade.
package waitlistcascade
