package model

import (
	"encoding/hex"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ChainSnapshot is the full chain and utxo set a node hands to its peers.
type ChainSnapshot struct {
	Blocks []*Block
	Utxos  []*Utxo
}

type snapshotUtxoJSON struct {
	TxID          string `json:"txid"`
	Index         uint32 `json:"index"`
	Amount        uint64 `json:"amount"`
	LockingScript string `json:"lockingScript"`
}

type snapshotJSON struct {
	Length int                `json:"length"`
	Chain  []string           `json:"chain"`
	Utxos  []snapshotUtxoJSON `json:"utxos"`
}

func (s *ChainSnapshot) Length() int {
	return len(s.Blocks)
}

func (s *ChainSnapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{
		Length: len(s.Blocks),
		Chain:  make([]string, len(s.Blocks)),
		Utxos:  make([]snapshotUtxoJSON, len(s.Utxos)),
	}

	for i, block := range s.Blocks {
		out.Chain[i] = hex.EncodeToString(block.Bytes())
	}

	for i, u := range s.Utxos {
		out.Utxos[i] = snapshotUtxoJSON{
			TxID:          u.TxID.String(),
			Index:         u.Index,
			Amount:        u.Output.Amount,
			LockingScript: hex.EncodeToString(u.Output.LockingScript),
		}
	}

	return json.Marshal(out)
}

func (s *ChainSnapshot) UnmarshalJSON(b []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return errors.NewEncodingError("invalid chain snapshot", err)
	}

	if in.Length != len(in.Chain) {
		return errors.NewEncodingError("chain snapshot length %d does not match %d blocks", in.Length, len(in.Chain))
	}

	blocks := make([]*Block, len(in.Chain))

	for i, blockHex := range in.Chain {
		block, err := NewBlockFromString(blockHex)
		if err != nil {
			return errors.NewEncodingError("invalid block %d in chain snapshot", i, err)
		}

		blocks[i] = block
	}

	utxos := make([]*Utxo, len(in.Utxos))

	for i, u := range in.Utxos {
		txID, err := chainhash.NewHashFromStr(u.TxID)
		if err != nil {
			return errors.NewEncodingError("invalid utxo txid %q", u.TxID, err)
		}

		lockingScript, err := hex.DecodeString(u.LockingScript)
		if err != nil {
			return errors.NewEncodingError("invalid utxo locking script", err)
		}

		utxos[i] = &Utxo{
			TxID:   *txID,
			Index:  u.Index,
			Output: &Output{Amount: u.Amount, LockingScript: lockingScript},
		}
	}

	s.Blocks = blocks
	s.Utxos = utxos

	return nil
}

// NewChainSnapshotFromJSON decodes the body of a POST /chain reply.
func NewChainSnapshotFromJSON(b []byte) (*ChainSnapshot, error) {
	s := &ChainSnapshot{}
	if err := s.UnmarshalJSON(b); err != nil {
		return nil, err
	}

	return s, nil
}
