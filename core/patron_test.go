package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lendkit/circulation-go/core"
)

func Test_CheckEligibility(t *testing.T) {
	policy := testPolicy() // min reputation 5, max borrow items 5

	testCases := []struct {
		name     string
		standing core.PatronStanding
		expected core.IneligibilityReason
	}{
		{
			name:     "eligible",
			standing: core.PatronStanding{Active: true, ReputationIndex: 5, ActiveLoanCount: 2, ActiveReservationCount: 2},
			expected: core.EligiblePatron,
		},
		{
			name:     "inactive account",
			standing: core.PatronStanding{Active: false, ReputationIndex: 50},
			expected: core.PatronInactive,
		},
		{
			name:     "reputation below minimum",
			standing: core.PatronStanding{Active: true, ReputationIndex: 4},
			expected: core.PatronReputationTooLow,
		},
		{
			name:     "loans plus reservations at the limit",
			standing: core.PatronStanding{Active: true, ReputationIndex: 10, ActiveLoanCount: 3, ActiveReservationCount: 2},
			expected: core.PatronAtBorrowLimit,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, core.CheckEligibility(tc.standing, policy))
		})
	}
}

func Test_ClampReputation_FlooredAtZero(t *testing.T) {
	assert.Equal(t, 0, core.ClampReputation(1, -5))
	assert.Equal(t, 3, core.ClampReputation(5, -2))
}

func Test_ClampReputation_NoUpperBound(t *testing.T) {
	assert.Equal(t, 1_000_000, core.ClampReputation(999_999, 1))
}

func Test_ClampReputation_NeverNegativeAfterAnySequence(t *testing.T) {
	value := 3

	for _, delta := range []int{-2, -2, 5, -10, -1, 4, -100} {
		value = core.ClampReputation(value, delta)
		assert.GreaterOrEqual(t, value, 0)
	}
}
