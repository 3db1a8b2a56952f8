// Package shell is the imperative counterpart of package core. It defines the
// storage contract with its conditional-write semantics, the interfaces of the
// external collaborators (catalog, patron directory, policy source,
// notification gateway, audit sink), the clock, pickup-secret hashing,
// conflict retry, post-commit side-effect dispatch, the background-task
// scheduler, and the dependency-free observability interfaces.
//
// Feature packages depend on the narrow slices of this package they need;
// concrete implementations live in postgresengine, memoryengine, clients, and
// oteladapters.
package shell
