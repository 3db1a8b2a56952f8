// Package memoryengine provides an in-memory implementation of the
// circulation storage contract.
//
// Transactions are serialized behind one mutex and roll back via snapshot
// restore, so the conditional-write semantics match the Postgres engine: a
// transition whose source status no longer holds fails with
// shell.ErrTransactionConflict and nothing of the transaction survives.
//
// Intended for tests and local development, not for production use.
package memoryengine
