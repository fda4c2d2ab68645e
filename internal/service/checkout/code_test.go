package checkout

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketCode(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 1000; i++ {
		code, err := newTicketCode()
		require.NoError(t, err)

		assert.Len(t, code, ticketCodeBytes*2)
		_, err = hex.DecodeString(code)
		assert.NoError(t, err, "code must be lowercase hex: %q", code)

		_, dup := seen[code]
		assert.False(t, dup, "duplicate code %q", code)
		seen[code] = struct{}{}
	}
}
