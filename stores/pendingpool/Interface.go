// Package pendingpool queues serialized transactions that passed validation until a block takes them.
package pendingpool

import (
	"context"
)

type Store interface {
	// Add appends a serialized transaction to the back of the queue.
	Add(ctx context.Context, tx []byte) error
	// Peek returns up to n transactions from the front of the queue, all of them when n <= 0.
	Peek(ctx context.Context, n int) ([][]byte, error)
	// Remove drops the first queued copy of each of txs. Unknown transactions are ignored.
	Remove(ctx context.Context, txs [][]byte) error
	Len(ctx context.Context) (int, error)
}

// Without returns queued minus the first occurrence of every element of removed, keeping order.
func Without(queued [][]byte, removed [][]byte) [][]byte {
	pending := make(map[string]int, len(removed))
	for _, tx := range removed {
		pending[string(tx)]++
	}

	kept := make([][]byte, 0, len(queued))

	for _, tx := range queued {
		if pending[string(tx)] > 0 {
			pending[string(tx)]--
			continue
		}

		kept = append(kept, tx)
	}

	return kept
}

// Head returns a copy of the first n elements of queued, all of them when n <= 0.
func Head(queued [][]byte, n int) [][]byte {
	if n <= 0 || n > len(queued) {
		n = len(queued)
	}

	out := make([][]byte, n)
	copy(out, queued[:n])

	return out
}
