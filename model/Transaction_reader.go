package model

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
)

// maxScriptLength caps scripts read off the wire.
const maxScriptLength = 10_000

type reader struct {
	b   []byte
	pos int
}

func (r *reader) remaining() int {
	return len(r.b) - r.pos
}

func (r *reader) next(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, errors.NewEncodingError("need %d bytes at offset %d, have %d", n, r.pos, r.remaining())
	}

	b := r.b[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

func (r *reader) uint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) uint64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) varInt() (uint64, error) {
	if r.remaining() < 1 {
		return 0, errors.NewEncodingError("missing varint at offset %d", r.pos)
	}

	size := 1

	switch r.b[r.pos] {
	case 0xfd:
		size = 3
	case 0xfe:
		size = 5
	case 0xff:
		size = 9
	}

	if r.remaining() < size {
		return 0, errors.NewEncodingError("truncated varint at offset %d", r.pos)
	}

	v, n := bt.NewVarIntFromBytes(r.b[r.pos:])
	r.pos += n

	return uint64(v), nil
}

func (r *reader) varBytes(limit int) ([]byte, error) {
	n, err := r.varInt()
	if err != nil {
		return nil, err
	}

	if n > uint64(limit) {
		return nil, errors.NewEncodingError("length %d exceeds limit %d", n, limit)
	}

	b, err := r.next(int(n))
	if err != nil {
		return nil, err
	}

	return append([]byte{}, b...), nil
}

func (r *reader) transaction() (*Transaction, error) {
	version, err := r.uint32()
	if err != nil {
		return nil, err
	}

	inputCount, err := r.varInt()
	if err != nil {
		return nil, err
	}

	// 41 bytes is the smallest possible input
	if inputCount > uint64(r.remaining()/41) {
		return nil, errors.NewEncodingError("input count %d larger than remaining data", inputCount)
	}

	tx := &Transaction{
		Version: int32(version),
		Inputs:  make([]*Input, 0, inputCount),
	}

	for i := uint64(0); i < inputCount; i++ {
		input := &Input{}

		txID, err := r.next(chainhash.HashSize)
		if err != nil {
			return nil, err
		}

		copy(input.PreviousOutput.TxID[:], txID)

		if input.PreviousOutput.Index, err = r.uint32(); err != nil {
			return nil, err
		}

		if input.UnlockingScript, err = r.varBytes(maxScriptLength); err != nil {
			return nil, err
		}

		if input.Sequence, err = r.uint32(); err != nil {
			return nil, err
		}

		tx.Inputs = append(tx.Inputs, input)
	}

	outputCount, err := r.varInt()
	if err != nil {
		return nil, err
	}

	// 9 bytes is the smallest possible output
	if outputCount > uint64(r.remaining()/9) {
		return nil, errors.NewEncodingError("output count %d larger than remaining data", outputCount)
	}

	tx.Outputs = make([]*Output, 0, outputCount)

	for i := uint64(0); i < outputCount; i++ {
		output := &Output{}

		if output.Amount, err = r.uint64(); err != nil {
			return nil, err
		}

		if output.LockingScript, err = r.varBytes(maxScriptLength); err != nil {
			return nil, err
		}

		tx.Outputs = append(tx.Outputs, output)
	}

	if tx.LockTime, err = r.uint32(); err != nil {
		return nil, err
	}

	return tx, nil
}

// NewTransactionFromBytes parses a serialized transaction. Trailing bytes are an error.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	r := &reader{b: b}

	tx, err := r.transaction()
	if err != nil {
		return nil, errors.NewEncodingError("failed to parse transaction", err)
	}

	if r.remaining() != 0 {
		return nil, errors.NewEncodingError("%d trailing bytes after transaction", r.remaining())
	}

	return tx, nil
}

func NewTransactionFromString(s string) (*Transaction, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.NewEncodingError("invalid transaction hex", err)
	}

	return NewTransactionFromBytes(b)
}
