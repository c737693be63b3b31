package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEligibleActions(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		hasMatch bool
		expected []Action
	}{
		{
			name:     "PendingWithMatchOffersMergeAndReject",
			status:   "PENDING",
			hasMatch: true,
			expected: []Action{ActionMerge, ActionReject},
		},
		{
			name:     "PendingWithoutMatchOffersApproveAndReject",
			status:   "PENDING",
			hasMatch: false,
			expected: []Action{ActionApprove, ActionReject},
		},
		{
			name:     "ApprovedOffersDeleteOnly",
			status:   "APPROVED",
			hasMatch: false,
			expected: []Action{ActionDelete},
		},
		{
			name:     "MergedOffersDeleteOnly",
			status:   "MERGED",
			hasMatch: true,
			expected: []Action{ActionDelete},
		},
		{
			name:     "IgnoredOffersDeleteOnly",
			status:   "IGNORED",
			hasMatch: false,
			expected: []Action{ActionDelete},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.expected, EligibleActions(tt.status, tt.hasMatch))
		})
	}
}

func TestAllows(t *testing.T) {
	t.Run("NeverApproveOnMatchedItem", func(t *testing.T) {
		assert.False(t, Allows("PENDING", true, ActionApprove))
	})

	t.Run("NeverMergeWithoutMatch", func(t *testing.T) {
		assert.False(t, Allows("PENDING", false, ActionMerge))
	})

	t.Run("NeverApproveResolvedItem", func(t *testing.T) {
		assert.False(t, Allows("MERGED", true, ActionApprove))
	})

	t.Run("NeverDeletePendingItem", func(t *testing.T) {
		assert.False(t, Allows("PENDING", false, ActionDelete))
		assert.False(t, Allows("PENDING", true, ActionDelete))
	})

	t.Run("RejectAllowedWhilePending", func(t *testing.T) {
		assert.True(t, Allows("PENDING", false, ActionReject))
		assert.True(t, Allows("PENDING", true, ActionReject))
	})
}
