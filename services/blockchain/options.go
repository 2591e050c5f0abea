package blockchain

import (
	"time"

	"github.com/bsv-blockchain/ritcoin/stores/utxo"
)

type Option func(*BlockChain)

// WithClock replaces the wall clock used to stamp candidate blocks.
func WithClock(clock func() time.Time) Option {
	return func(b *BlockChain) {
		b.clock = clock
	}
}

// WithUtxoStore replaces the default in-memory utxo set.
func WithUtxoStore(store utxo.Store) Option {
	return func(b *BlockChain) {
		b.utxos = store
	}
}
