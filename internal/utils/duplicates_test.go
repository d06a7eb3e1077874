package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckForDuplicates(t *testing.T) {
	tests := []struct {
		name      string
		candidate map[string]string
		existing  []map[string]string
		want      Conflicts
	}{
		{
			name:      "no existing rows",
			candidate: map[string]string{"user_name": "alice", "email": "alice@example.com"},
			existing:  nil,
			want:      nil,
		},
		{
			name:      "single field collides",
			candidate: map[string]string{"user_name": "alice", "email": "alice@example.com"},
			existing: []map[string]string{
				{"user_name": "alice", "email": "other@example.com"},
			},
			want: Conflicts{"user_name": true},
		},
		{
			name:      "both fields collide in one row",
			candidate: map[string]string{"user_name": "alice", "email": "alice@example.com"},
			existing: []map[string]string{
				{"user_name": "alice", "email": "alice@example.com"},
			},
			want: Conflicts{"user_name": true, "email": true},
		},
		{
			name:      "flags accumulate across rows",
			candidate: map[string]string{"property_name": "Cottage", "address": "1 Shore Rd"},
			existing: []map[string]string{
				{"property_name": "Cottage", "address": "9 Hill Rd"},
				{"property_name": "Cabin", "address": "1 Shore Rd"},
			},
			want: Conflicts{"property_name": true, "address": true},
		},
		{
			name:      "row matched the query on another field only",
			candidate: map[string]string{"property_name": "Cottage", "address": "1 Shore Rd"},
			existing: []map[string]string{
				{"property_name": "Cottage", "address": "9 Hill Rd"},
			},
			want: Conflicts{"property_name": true},
		},
		{
			name:      "empty candidate values never collide",
			candidate: map[string]string{"user_name": "alice", "email": ""},
			existing: []map[string]string{
				{"user_name": "bob", "email": ""},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckForDuplicates(tt.candidate, tt.existing)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateInviteCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		require.Regexp(t, `^[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}$`, code)
		require.False(t, seen[code])
		seen[code] = true
	}
}
