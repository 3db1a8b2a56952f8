// Package core contains the pure domain model of the circulation engine:
// entity types with their status lifecycles, transition guards, the fine
// calculator, reputation arithmetic, patron eligibility checks, and the
// decision/intent types returned by the feature Decide functions.
//
// Nothing in this package performs I/O or reads the clock. Every function is
// deterministic given its inputs, which keeps the business rules directly
// unit-testable and lets the imperative shell own all side effects.
package core
