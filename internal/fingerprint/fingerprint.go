// Package fingerprint computes the two deterministic digests the reconciler
// compares findings by. Neither digest is ever persisted; both are recomputed
// from stored fields at comparison time.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/xkilldash9x/findingsd/api/schemas"
)

// Policy tunes which fields participate in the identity digest.
type Policy struct {
	// IncludeLocation folds the finding location into the identity
	// fingerprint, disambiguating distinct findings that share a title.
	// Off by default: alertNumber+title is the reference dedup scope.
	IncludeLocation bool
}

// Identity digests the fields that define "the same underlying finding".
// Two findings within one tenant+tool scope with equal identity digests are
// treated as the same finding regardless of any other field.
func (p Policy) Identity(f schemas.Finding) string {
	composite := f.AlertNumber + "||" + f.Title
	if p.IncludeLocation {
		composite += "||" + f.Location
	}
	return digest(composite)
}

// MutableState digests the fields expected to change over a finding's life.
// Equal identity digests with differing mutable-state digests signal an
// update; equal on both means an exact duplicate. Absent fields are omitted
// entirely rather than contributing a placeholder.
func MutableState(f schemas.Finding) string {
	var b strings.Builder
	if f.Severity != "" {
		b.WriteString(string(f.Severity))
		b.WriteByte('|')
	}
	if f.State != "" {
		b.WriteString(string(f.State))
		b.WriteByte('|')
	}
	if f.UpdatedAt != "" {
		b.WriteString(f.UpdatedAt)
	}
	return digest(b.String())
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
