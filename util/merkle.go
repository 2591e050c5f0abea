package util

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// MerkleRoot commits an ordered list of serialized transactions to a single hash.
// Leaves are sha256(tx) and each parent is sha256(left || right); an odd level
// duplicates its last node. No transactions gives an empty root and a single
// transaction gives its own leaf hash.
func MerkleRoot(transactions [][]byte) []byte {
	if len(transactions) == 0 {
		return []byte{}
	}

	level := make([]chainhash.Hash, len(transactions))
	for i, tx := range transactions {
		level[i] = chainhash.HashH(tx)
	}

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}

		next := make([]chainhash.Hash, 0, len(level)/2)

		var pair [chainhash.HashSize * 2]byte

		for i := 0; i < len(level); i += 2 {
			copy(pair[:chainhash.HashSize], level[i][:])
			copy(pair[chainhash.HashSize:], level[i+1][:])
			next = append(next, chainhash.HashH(pair[:]))
		}

		level = next
	}

	return level[0].CloneBytes()
}
