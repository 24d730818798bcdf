package apiclient

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// callKey builds the deterministic fingerprint of one outbound call:
// tenant partition, verb, endpoint path, and canonicalized body (or
// its absence). Identical fingerprints coalesce onto one physical
// call; the tenant partition keeps one tenant's cached responses from
// ever serving another's.
func callKey(tenantKey string, verb Verb, path string, body []byte) string {
	var b strings.Builder
	b.WriteString(tenantKey)
	b.WriteByte('|')
	b.WriteString(string(verb))
	b.WriteByte('|')
	b.WriteString(path)
	b.WriteByte('|')
	if len(body) == 0 {
		b.WriteByte('-')
	} else {
		sum := sha256.Sum256(body)
		b.WriteString(hex.EncodeToString(sum[:]))
	}
	return b.String()
}
