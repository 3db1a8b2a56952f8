package core

// DecisionResult represents the outcome of a business decision in a Decide function.
// This enables type-safe, functional programming style decision modeling.
//
// IMPORTANT: DecisionResult should only be constructed using the provided factory
// methods: IdempotentDecision(), SuccessDecision(intents), or ErrorDecision(err).
type DecisionResult struct {
	Outcome string // "idempotent", "success", or "error"
	Intents Intents
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision creates a DecisionResult indicating no state change is
// needed. Used when a transition finds its work already done, for example when
// the sweeper and a live actor race for the same terminal transition.
func IdempotentDecision() DecisionResult {
	return DecisionResult{
		Outcome: idempotentOutcome,
	}
}

// SuccessDecision creates a DecisionResult indicating a state change, carrying
// the side-effect intents to dispatch once the transaction commits.
func SuccessDecision(intents Intents) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Intents: intents,
	}
}

// ErrorDecision creates a DecisionResult for a business rule violation.
// No writes happen and no intents are dispatched.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// HasStateChange returns true if the decision produced writes to commit.
func (r DecisionResult) HasStateChange() bool {
	return r.Outcome == successOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
