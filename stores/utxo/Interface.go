// Package utxo defines the unspent output set the chain is validated against.
package utxo

import (
	"github.com/bsv-blockchain/ritcoin/model"
)

type Store interface {
	// ByPubKeyHash returns, in insertion order, every utxo whose locking script
	// contains pubKeyHash as a contiguous byte substring.
	ByPubKeyHash(pubKeyHash []byte) []*model.Utxo
	Get(outpoint model.OutPoint) (*model.Utxo, bool)

	// Apply removes the outputs spent by txs and adds the outputs they create, in order.
	// Nothing is changed when any transaction spends an unknown outpoint.
	Apply(txs []*model.Transaction) error

	// SelectForSpend picks the utxos of pubKeyHash to fund targetAmount, ignoring
	// outpoints already spent by the reserved transactions.
	SelectForSpend(pubKeyHash []byte, targetAmount uint64, reserved []*model.Transaction) ([]*model.Utxo, error)

	// Rebuild empties the set and replays every block of chain in order.
	Rebuild(chain []*model.Block) error
	Reset()

	All() []*model.Utxo
	Count() int
}

// Balance sums the utxos of pubKeyHash.
func Balance(s Store, pubKeyHash []byte) uint64 {
	return model.TotalAmount(s.ByPubKeyHash(pubKeyHash))
}
