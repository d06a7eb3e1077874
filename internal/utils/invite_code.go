package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Invite codes are three dash-separated groups of four hex characters, short
// enough to read over the phone.
const (
	inviteCodeGroups    = 3
	inviteCodeGroupSize = 4
)

// GenerateInviteCode returns a fresh random invite code.
func GenerateInviteCode() (string, error) {
	raw := make([]byte, inviteCodeGroups*inviteCodeGroupSize/2)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := hex.EncodeToString(raw)
	groups := make([]string, inviteCodeGroups)
	for i := range groups {
		groups[i] = encoded[i*inviteCodeGroupSize : (i+1)*inviteCodeGroupSize]
	}
	return strings.Join(groups, "-"), nil
}
