// Package outstandingfines implements the Outstanding Fines by Patron query
// use case: the patron's unpaid fines and their total.
package outstandingfines
