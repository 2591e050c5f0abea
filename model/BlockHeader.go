package model

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
)

// BlockHeaderSize is version, previous hash, merkle root, timestamp and nonce.
const BlockHeaderSize = 4 + chainhash.HashSize + chainhash.HashSize + 4 + 4

type BlockHeader struct {
	// Version of the block.
	Version uint32

	// Hash of the previous block header, all zeros for genesis.
	HashPrevBlock chainhash.Hash

	// Merkle root of the block's transactions.
	HashMerkleRoot chainhash.Hash

	// Time the header was last stamped, in unix seconds.
	Timestamp uint32

	// Nonce used to generate the block.
	Nonce uint32
}

func NewBlockHeaderFromBytes(headerBytes []byte) (*BlockHeader, error) {
	if len(headerBytes) != BlockHeaderSize {
		return nil, errors.NewEncodingError("block header should be %d bytes long, got %d", BlockHeaderSize, len(headerBytes))
	}

	bh := &BlockHeader{
		Version:   binary.LittleEndian.Uint32(headerBytes[:4]),
		Timestamp: binary.LittleEndian.Uint32(headerBytes[68:72]),
		Nonce:     binary.LittleEndian.Uint32(headerBytes[72:76]),
	}

	copy(bh.HashPrevBlock[:], headerBytes[4:36])
	copy(bh.HashMerkleRoot[:], headerBytes[36:68])

	return bh, nil
}

func NewBlockHeaderFromString(headerHex string) (*BlockHeader, error) {
	headerBytes, err := hex.DecodeString(headerHex)
	if err != nil {
		return nil, errors.NewEncodingError("error decoding hex string to bytes", err)
	}

	return NewBlockHeaderFromBytes(headerBytes)
}

// Hash is a single SHA-256 over the header bytes.
func (bh *BlockHeader) Hash() chainhash.Hash {
	return chainhash.HashH(bh.Bytes())
}

func (bh *BlockHeader) Bytes() []byte {
	b := make([]byte, BlockHeaderSize)

	binary.LittleEndian.PutUint32(b[:4], bh.Version)
	copy(b[4:36], bh.HashPrevBlock[:])
	copy(b[36:68], bh.HashMerkleRoot[:])
	binary.LittleEndian.PutUint32(b[68:72], bh.Timestamp)
	binary.LittleEndian.PutUint32(b[72:76], bh.Nonce)

	return b
}

// HasLeadingZeroBytes reports whether the first n bytes of h are zero.
func HasLeadingZeroBytes(h chainhash.Hash, n int) bool {
	if n > chainhash.HashSize {
		return false
	}

	for i := 0; i < n; i++ {
		if h[i] != 0 {
			return false
		}
	}

	return true
}
