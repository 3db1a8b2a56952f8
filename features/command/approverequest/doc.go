// Package approverequest implements the Approve Borrow Request use case.
//
// Approval binds a pending request to one physical copy. The handler selects
// the copy that has been available longest, claims it with a conditional
// status flip, approves the request, and creates a reservation protected by a
// one-time pickup secret. All writes happen in one transaction.
//
// Copy contention is resolved by the conditional write: two concurrent
// approvals for the last available copy race on the status flip, the loser
// gets a conflict, retries with fresh reads, and fails with NoCopyAvailable
// when nothing is left to claim.
//
// The plaintext secret is generated here, returned to the caller, and included
// in the pickup notification; only its argon2id hash is stored.
package approverequest
