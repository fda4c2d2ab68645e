package checkout

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ticketCodeBytes gives 160 bits of entropy per code. Collisions are
// negligible at that size, but the unique index on tickets.qr_code is the
// actual guarantee, not the entropy.
const ticketCodeBytes = 20

func newTicketCode() (string, error) {
	b := make([]byte, ticketCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("ticket code: %w", err)
	}

	return hex.EncodeToString(b), nil
}
