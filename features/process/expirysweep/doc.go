// Package expirysweep implements the recurring pass that forces time-bound
// records past their deadline into a terminal state.
//
// The sweeper is a query plus a loop: it finds due borrow requests and
// reservations and routes each one through the same expire command handlers a
// direct transition would use, so expiry is never a parallel code path with
// different invariants. Overdue loans are a derived reporting state and are
// deliberately not touched here.
//
// Failures are isolated per record. Running the sweep twice with no time
// elapsed is a no-op on the second pass.
package expirysweep
