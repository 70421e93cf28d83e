package domain

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

const (
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength   = 6
)

var referencePattern = regexp.MustCompile(`^[A-Z0-9]+-[A-Z0-9]{6}$`)

// NewReference draws a candidate booking reference: the prefix, a dash,
// and 6 characters uniform over A-Z0-9. Uniqueness is not guaranteed here;
// the caller checks the candidate against stored references.
func NewReference(prefix string) string {
	var sb strings.Builder
	sb.Grow(len(prefix) + 1 + referenceLength)
	sb.WriteString(prefix)
	sb.WriteByte('-')
	for i := 0; i < referenceLength; i++ {
		sb.WriteByte(referenceAlphabet[rand.IntN(len(referenceAlphabet))])
	}
	return sb.String()
}

// IsReference reports whether s has the booking reference shape.
func IsReference(s string) bool {
	return referencePattern.MatchString(s)
}
