// Package returncopy implements the Return Copy use case.
//
// Closing a loan is the richest transition in the system: the loan closes as
// returned or lost, any overdue or damage penalty is computed and persisted as
// a fine, and the copy moves to available, retired, or lost. A copy returning
// to available is announced to the waitlist cascade after the transaction
// commits, so a queued patron can claim it.
package returncopy
