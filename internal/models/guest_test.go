package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuestState(t *testing.T) {
	cleaner := uint64(7)
	pending := uint64(9)

	tests := []struct {
		name  string
		guest Guest
		want  AssignmentState
	}{
		{"no cleaner", Guest{}, AssignmentUnassigned},
		{"bound cleaner", Guest{CleanerID: &cleaner}, AssignmentAssigned},
		{"proposal on bound stay", Guest{CleanerID: &cleaner, PendingCleanerID: &pending}, AssignmentPending},
		{"proposal on unassigned stay", Guest{PendingCleanerID: &pending}, AssignmentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.guest.State())
		})
	}
}
