// Package expirereservation implements the Expire Reservation transition.
//
// Issued by the expiry sweeper for reservations whose pickup window closed.
// The copy is released back to the pool, the patron penalized and notified.
// Races against a live check-in or cancel resolve idempotently.
package expirereservation
