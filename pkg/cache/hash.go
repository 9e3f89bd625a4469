package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the hex SHA-256 digest of the JSON encoding of v.
// encoding/json sorts map keys, so equal values hash equally.
func HashJSON(v any) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(v); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashKey builds "<prefix>:<digest>" over parts. Parts that JSON cannot
// encode fall back to their Go syntax representation.
func hashKey(prefix string, parts ...any) string {
	digest, err := HashJSON(parts)
	if err != nil {
		digest = Hash(fmt.Appendf(nil, "%#v", parts))
	}
	return prefix + ":" + digest
}
