package cpuminer

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Unix(1700000000, 0)

func fixedClock() time.Time {
	return fixedTime
}

func candidate(t *testing.T) *model.Block {
	t.Helper()

	coinbase, err := model.NewCoinbase(make([]byte, 20), 0, 50)
	require.NoError(t, err)

	return model.NewBlockAt(chainhash.Hash{}, [][]byte{coinbase.Bytes()}, fixedTime)
}

func TestMineMeetsDifficulty(t *testing.T) {
	for _, difficulty := range []int{0, 1, 2} {
		block := candidate(t)

		require.NoError(t, Mine(context.Background(), block, difficulty, WithClock(fixedClock)))

		hash := block.Hash()
		for i := 0; i < difficulty; i++ {
			assert.Equal(t, byte(0), hash[i], "difficulty %d byte %d", difficulty, i)
		}

		assert.True(t, block.CheckProofOfWork(difficulty))
	}
}

func TestMineIsDeterministicWithFixedClock(t *testing.T) {
	first := candidate(t)
	second := candidate(t)

	require.NoError(t, Mine(context.Background(), first, 2, WithClock(fixedClock)))
	require.NoError(t, Mine(context.Background(), second, 2, WithClock(fixedClock)))

	assert.Equal(t, first.Header.Nonce, second.Header.Nonce)
	assert.Equal(t, first.Hash(), second.Hash())
	assert.Equal(t, uint32(fixedTime.Unix()), first.Header.Timestamp)
}

func TestMineRefreshesTimestamp(t *testing.T) {
	block := candidate(t)
	now := fixedTime

	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	require.NoError(t, Mine(context.Background(), block, 2, WithClock(clock), WithRefreshInterval(2*time.Second)))

	if block.Header.Nonce >= 2*checkEvery {
		assert.Greater(t, block.Header.Timestamp, uint32(fixedTime.Unix()))
	}

	assert.True(t, block.CheckProofOfWork(2))
}

func TestMineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Mine(ctx, candidate(t), chainhash.HashSize, WithClock(fixedClock))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrContextCanceled))
}

func TestMineNonceOverflow(t *testing.T) {
	block := candidate(t)
	block.Header.Nonce = math.MaxUint32 - 10

	err := Mine(context.Background(), block, chainhash.HashSize, WithClock(fixedClock))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrThresholdExceeded))
	assert.Contains(t, err.Error(), "nonce overflow")
}

func TestMineInvalidDifficulty(t *testing.T) {
	err := Mine(context.Background(), candidate(t), chainhash.HashSize+1)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestMineCounters(t *testing.T) {
	hashesBefore, solvedBefore := HashesTried(), BlocksSolved()

	require.NoError(t, Mine(context.Background(), candidate(t), 1, WithClock(fixedClock)))

	assert.Greater(t, HashesTried(), hashesBefore)
	assert.Equal(t, solvedBefore+1, BlocksSolved())
}
