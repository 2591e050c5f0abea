package model

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// Utxo is an unspent output together with the outpoint that created it.
type Utxo struct {
	TxID   chainhash.Hash
	Index  uint32
	Output *Output
}

func (u *Utxo) OutPoint() OutPoint {
	return OutPoint{TxID: u.TxID, Index: u.Index}
}

func (u *Utxo) Amount() uint64 {
	return u.Output.Amount
}

// Input returns an unsigned input spending u. The unlocking script holds a copy of
// the locking script until the transaction is signed.
func (u *Utxo) Input() *Input {
	return &Input{
		PreviousOutput:  u.OutPoint(),
		UnlockingScript: append([]byte{}, u.Output.LockingScript...),
		Sequence:        DefaultSequence,
	}
}

// TotalAmount sums the amounts of utxos.
func TotalAmount(utxos []*Utxo) uint64 {
	var total uint64
	for _, u := range utxos {
		total += u.Output.Amount
	}

	return total
}

// UtxosFromTransaction returns the outputs of tx as utxos keyed by its hash.
func UtxosFromTransaction(tx *Transaction) []*Utxo {
	txHash := tx.TxHash()
	utxos := make([]*Utxo, len(tx.Outputs))

	for i, output := range tx.Outputs {
		utxos[i] = &Utxo{
			TxID:   txHash,
			Index:  uint32(i),
			Output: output,
		}
	}

	return utxos
}
