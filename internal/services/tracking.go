// Package services – tracking identifier generation.
//
// Tracking identifiers are the citizen-facing receipt for a complaint: a
// short, fixed-length, uppercase alphanumeric token assigned exactly once
// at creation. Tokens are sampled randomly (not sequentially) so they are
// not guessable or enumerable; uniqueness is enforced by the store's unique
// index with a collision-checked retry in ComplaintService.Create.
package services

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

// trackingAlphabet excludes lookalike characters (0/O, 1/I/L) so tokens
// survive being read over the phone or copied off a paper slip.
const trackingAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// DefaultTrackingIDLength is the token length used when the service is not
// configured otherwise. Ten characters of a 31-symbol alphabet is far more
// entropy than the complaint volume requires.
const DefaultTrackingIDLength = 10

// trackingIDPattern validates the shape of a generated token.
var trackingIDPattern = regexp.MustCompile(`^[2-9A-HJKMNP-Z]+$`)

// newTrackingID samples a random token of n characters from the tracking
// alphabet using crypto/rand.
func newTrackingID(n int) (string, error) {
	if n <= 0 {
		n = DefaultTrackingIDLength
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("tracking id entropy: %w", err)
	}
	for i, b := range buf {
		buf[i] = trackingAlphabet[int(b)%len(trackingAlphabet)]
	}
	return string(buf), nil
}

// ValidTrackingID reports whether s looks like a token this service could
// have issued: correct alphabet, non-empty. Length is not pinned because
// the configured length may change across deployments.
func ValidTrackingID(s string) bool {
	return s != "" && trackingIDPattern.MatchString(s)
}
