package core

// PatronStanding is the reputation-bearing view of a patron supplied by the
// identity collaborator. The circulation engine is the only writer of the
// reputation index, but the directory owns the value.
type PatronStanding struct {
	Active                 bool
	ReputationIndex        int
	ActiveLoanCount        int
	ActiveReservationCount int
}

// IneligibilityReason explains why a patron failed an eligibility check.
type IneligibilityReason string

// Ineligibility reasons, also used as notification text for skipped waitlist entries.
const (
	EligiblePatron         IneligibilityReason = ""
	PatronInactive         IneligibilityReason = "patron account is not active"
	PatronReputationTooLow IneligibilityReason = "patron reputation is below the required minimum"
	PatronAtBorrowLimit    IneligibilityReason = "patron has reached the borrow limit"
)

// CheckEligibility applies the standing checks used by the waitlist cascade:
// the patron must be active, meet the minimum reputation, and have headroom
// under the borrow limit counting both loans and open reservations.
func CheckEligibility(standing PatronStanding, policy Policy) IneligibilityReason {
	if !standing.Active {
		return PatronInactive
	}

	if standing.ReputationIndex < policy.MinReputationRequired {
		return PatronReputationTooLow
	}

	if standing.ActiveLoanCount+standing.ActiveReservationCount >= policy.MaxBorrowItems {
		return PatronAtBorrowLimit
	}

	return EligiblePatron
}

// ClampReputation applies a delta to a reputation index, flooring at zero.
// There is no upper bound.
func ClampReputation(current int, delta int) int {
	next := current + delta
	if next < 0 {
		return 0
	}

	return next
}
