// Package tests holds the behaviour every pending pool implementation must share.
package tests

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/ritcoin/stores/pendingpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	Tx1 = []byte{0x01, 0x00, 0x00, 0x00, 0xff}
	Tx2 = []byte{0x02, 0x10, 0x20}
	Tx3 = []byte{0x03}
)

func FIFO(t *testing.T, s pendingpool.Store) {
	ctx := context.Background()

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.Add(ctx, Tx1))
	require.NoError(t, s.Add(ctx, Tx2))
	require.NoError(t, s.Add(ctx, Tx3))

	all, err := s.Peek(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{Tx1, Tx2, Tx3}, all)

	first, err := s.Peek(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{Tx1, Tx2}, first)

	more, err := s.Peek(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, more, 3)
}

func Remove(t *testing.T, s pendingpool.Store) {
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Tx1))
	require.NoError(t, s.Add(ctx, Tx2))
	require.NoError(t, s.Add(ctx, Tx1))
	require.NoError(t, s.Add(ctx, Tx3))

	require.NoError(t, s.Remove(ctx, [][]byte{Tx1, Tx3, {0x42}}))

	left, err := s.Peek(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{Tx2, Tx1}, left)

	require.NoError(t, s.Remove(ctx, left))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
