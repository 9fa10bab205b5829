package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

const receiptSuffixAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// GenerateReceiptNo generates a human-readable receipt number from the
// current time plus a random suffix. Practically unique without a central
// sequence: two receipts collide only within the same second AND on the
// same 4-character random suffix.
//
//	RCP-20260831-142233-7KQ3
func GenerateReceiptNo(prefix string) string {
	if prefix == "" {
		prefix = "RCP"
	}
	now := time.Now()

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to the uuid package rather than a fixed suffix.
		return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102-150405"),
			strings.ToUpper(uuid.New().String()[:4]))
	}
	suffix := make([]byte, 4)
	for i, b := range buf {
		suffix[i] = receiptSuffixAlphabet[int(b)%len(receiptSuffixAlphabet)]
	}

	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102-150405"), suffix)
}
