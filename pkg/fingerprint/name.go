package fingerprint

import (
	"regexp"
	"unicode/utf8"
)

// stemPattern matches a filename stem that is exactly one fingerprint:
// 32 lowercase hex characters, anchored at both ends.
var stemPattern = regexp.MustCompile(`^[a-f0-9]{32}$`)

// Verdict classifies a filename stem against the canonical pattern
type Verdict int

const (
	// VerdictNotCanonical means the stem is definitely not a fingerprint
	VerdictNotCanonical Verdict = iota
	// VerdictCanonical means the stem is exactly a fingerprint
	VerdictCanonical
	// VerdictUndecidable means the stem could not be decoded as text;
	// callers should fail open and treat the file as not yet organised
	VerdictUndecidable
)

// ClassifyStem reports whether a filename stem already carries the
// canonical fingerprint shape.
func ClassifyStem(stem string) Verdict {
	if !utf8.ValidString(stem) {
		return VerdictUndecidable
	}
	if stemPattern.MatchString(stem) {
		return VerdictCanonical
	}
	return VerdictNotCanonical
}

// CanonicalName derives the filename a file should carry once organised:
// the fingerprint plus the original extension, or the bare fingerprint if
// the original name had none. The original stem never participates.
func CanonicalName(sum, ext string) string {
	return sum + ext
}
