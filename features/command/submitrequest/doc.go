// Package submitrequest implements the Submit Borrow Request use case.
//
// A patron asks to borrow an item without naming a specific copy; approval
// binds a copy later. The handler consults the catalog for early rejection of
// unknown or non-circulating items and persists a pending request that expires
// after the policy request window.
package submitrequest
