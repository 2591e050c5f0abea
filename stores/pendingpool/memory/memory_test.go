package memory

import (
	"testing"

	"github.com/bsv-blockchain/ritcoin/stores/pendingpool/tests"
)

func TestMemory(t *testing.T) {
	t.Run("memory fifo", func(t *testing.T) {
		tests.FIFO(t, New())
	})

	t.Run("memory remove", func(t *testing.T) {
		tests.Remove(t, New())
	})
}
