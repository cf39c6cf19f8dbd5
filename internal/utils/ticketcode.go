package utils

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

const ticketCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TicketCodeLength is the fixed length of participant ticket codes.
const TicketCodeLength = 8

var ticketCodePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

// GenerateTicketCode draws one random 8-character uppercase alphanumeric
// code. Callers must retry against the participant table until the code is
// unused; the retry loop, not the entropy, is the uniqueness guarantee.
func GenerateTicketCode() (string, error) {
	buf := make([]byte, TicketCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = ticketCodeAlphabet[int(b)%len(ticketCodeAlphabet)]
	}
	return string(buf), nil
}

// ValidTicketCode reports whether code has the canonical ticket-code shape.
func ValidTicketCode(code string) bool {
	return ticketCodePattern.MatchString(code)
}
