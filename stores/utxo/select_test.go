package utxo

import (
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utxosOf(amounts ...uint64) []*model.Utxo {
	utxos := make([]*model.Utxo, len(amounts))

	for i, amount := range amounts {
		utxos[i] = &model.Utxo{
			TxID:   chainhash.HashH([]byte{byte(i)}),
			Index:  uint32(i),
			Output: &model.Output{Amount: amount},
		}
	}

	return utxos
}

func amounts(utxos []*model.Utxo) []uint64 {
	out := make([]uint64, len(utxos))
	for i, u := range utxos {
		out[i] = u.Amount()
	}

	return out
}

func TestSelectCoins(t *testing.T) {
	tests := []struct {
		name      string
		available []uint64
		target    uint64
		expected  []uint64
	}{
		{"exact match", []uint64{30, 50, 70}, 50, []uint64{50}},
		{"exact sum of smaller utxos", []uint64{20, 30}, 50, []uint64{20, 30}},
		{"exact sum wins over a bigger utxo", []uint64{20, 100, 30}, 50, []uint64{20, 30}},
		{"smallest bigger utxo", []uint64{100}, 50, []uint64{100}},
		{"smallest of several bigger utxos", []uint64{200, 10, 60, 80}, 50, []uint64{60}},
		{"accumulate ascending", []uint64{10, 10, 10}, 25, []uint64{10, 10, 10}},
		{"accumulate stops once exceeded", []uint64{20, 5, 15, 10}, 25, []uint64{5, 10, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected, err := SelectCoins(utxosOf(tt.available...), tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, amounts(selected))
		})
	}
}

func TestSelectCoinsFirstExactMatchWins(t *testing.T) {
	available := utxosOf(50, 50)

	selected, err := SelectCoins(available, 50)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Same(t, available[0], selected[0])
}

func TestSelectCoinsInsufficientFunds(t *testing.T) {
	_, err := SelectCoins(utxosOf(10, 20), 50)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientFunds))

	_, err = SelectCoins(nil, 1)
	assert.True(t, errors.Is(err, errors.ErrInsufficientFunds))
}

func TestSelectCoinsZeroTarget(t *testing.T) {
	_, err := SelectCoins(utxosOf(10), 0)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestExcludeReserved(t *testing.T) {
	available := utxosOf(30, 50, 70)

	reserved := []*model.Transaction{
		model.NewTransaction([]*model.Input{available[1].Input()}, nil),
	}

	remaining := ExcludeReserved(available, reserved)
	assert.Equal(t, []uint64{30, 70}, amounts(remaining))

	// with the exact match reserved, the next rule picks the smallest bigger utxo
	selected, err := SelectCoins(remaining, 50)
	require.NoError(t, err)
	assert.Equal(t, []uint64{70}, amounts(selected))

	assert.Len(t, ExcludeReserved(available, nil), 3)
}
