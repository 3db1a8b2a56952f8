// Package patronloans implements the Loans by Patron query use case.
//
// A read-only projection over the patron's ongoing loans. Overdue is derived
// here from the due date at query time; it is never persisted on the loan.
package patronloans
