// Package testdoubles provides spies and stubs for the external collaborators
// of the circulation engine: catalog, patron directory, notification gateway,
// audit sink, clock, logger, and metrics. All doubles are safe for concurrent
// use so race-focused tests can share them across goroutines.
package testdoubles
