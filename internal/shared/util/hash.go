package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const ownerPrefixLen = 32

// OwnerPrefix returns the directory segment under which an owner's archived
// uploads live. The id is trimmed and lower-cased first so both spellings of
// a UUID land in the same place.
func OwnerPrefix(ownerID string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(ownerID))))
	return hex.EncodeToString(sum[:])[:ownerPrefixLen]
}
