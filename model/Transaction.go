package model

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/script"
	"github.com/bsv-blockchain/ritcoin/wallet"
)

const (
	TxVersion       int32  = 1
	DefaultSequence uint32 = math.MaxUint32

	// CoinbaseIndex is the output index of the coinbase sentinel outpoint.
	CoinbaseIndex uint32 = math.MaxUint32
)

// OutPoint identifies a previous transaction output.
type OutPoint struct {
	TxID  chainhash.Hash
	Index uint32
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID, o.Index)
}

// IsCoinbase reports whether o is the all-zero, max-index sentinel used by coinbase inputs.
func (o OutPoint) IsCoinbase() bool {
	return o.Index == CoinbaseIndex && o.TxID == chainhash.Hash{}
}

type Input struct {
	PreviousOutput  OutPoint
	UnlockingScript []byte
	Sequence        uint32
}

type Output struct {
	Amount        uint64
	LockingScript []byte
}

// NewOutput creates a P2PKH output paying amount to pubKeyHash.
func NewOutput(pubKeyHash []byte, amount uint64) (*Output, error) {
	lockingScript, err := script.NewP2PKH(pubKeyHash)
	if err != nil {
		return nil, err
	}

	return &Output{
		Amount:        amount,
		LockingScript: lockingScript,
	}, nil
}

type Transaction struct {
	Version  int32
	Inputs   []*Input
	Outputs  []*Output
	LockTime uint32
}

// NewTransaction creates a regular transaction. The inputs are expected to carry
// the locking script of the output they spend until Sign replaces it.
func NewTransaction(inputs []*Input, outputs []*Output) *Transaction {
	return &Transaction{
		Version:  TxVersion,
		Inputs:   inputs,
		Outputs:  outputs,
		LockTime: 0,
	}
}

// NewCoinbase creates the reward transaction of a block at height.
func NewCoinbase(receiverPubKeyHash []byte, height uint32, reward uint64) (*Transaction, error) {
	output, err := NewOutput(receiverPubKeyHash, reward)
	if err != nil {
		return nil, err
	}

	return &Transaction{
		Version: TxVersion,
		Inputs: []*Input{{
			PreviousOutput:  OutPoint{Index: CoinbaseIndex},
			UnlockingScript: CoinbaseHeightScript(height),
			Sequence:        DefaultSequence,
		}},
		Outputs:  []*Output{output},
		LockTime: 0,
	}, nil
}

// CoinbaseHeightScript encodes height little-endian with trailing zero bytes stripped.
func CoinbaseHeightScript(height uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, height)

	return bytes.TrimRight(b, "\x00")
}

// IsCoinbase reports whether tx has the coinbase shape: one input spending the sentinel outpoint.
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].PreviousOutput.IsCoinbase()
}

func (tx *Transaction) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 256))

	var b4 [4]byte

	var b8 [8]byte

	binary.LittleEndian.PutUint32(b4[:], uint32(tx.Version))
	buf.Write(b4[:])

	buf.Write(bt.VarInt(uint64(len(tx.Inputs))).Bytes())

	for _, input := range tx.Inputs {
		buf.Write(input.PreviousOutput.TxID[:])
		binary.LittleEndian.PutUint32(b4[:], input.PreviousOutput.Index)
		buf.Write(b4[:])
		buf.Write(bt.VarInt(uint64(len(input.UnlockingScript))).Bytes())
		buf.Write(input.UnlockingScript)
		binary.LittleEndian.PutUint32(b4[:], input.Sequence)
		buf.Write(b4[:])
	}

	buf.Write(bt.VarInt(uint64(len(tx.Outputs))).Bytes())

	for _, output := range tx.Outputs {
		binary.LittleEndian.PutUint64(b8[:], output.Amount)
		buf.Write(b8[:])
		buf.Write(bt.VarInt(uint64(len(output.LockingScript))).Bytes())
		buf.Write(output.LockingScript)
	}

	binary.LittleEndian.PutUint32(b4[:], tx.LockTime)
	buf.Write(b4[:])

	return buf.Bytes()
}

func (tx *Transaction) String() string {
	return hex.EncodeToString(tx.Bytes())
}

// TxHash is the double SHA-256 of the serialized transaction.
func (tx *Transaction) TxHash() chainhash.Hash {
	return chainhash.DoubleHashH(tx.Bytes())
}

// Clone returns a deep copy of tx.
func (tx *Transaction) Clone() *Transaction {
	c := &Transaction{
		Version:  tx.Version,
		Inputs:   make([]*Input, len(tx.Inputs)),
		Outputs:  make([]*Output, len(tx.Outputs)),
		LockTime: tx.LockTime,
	}

	for i, input := range tx.Inputs {
		c.Inputs[i] = &Input{
			PreviousOutput:  input.PreviousOutput,
			UnlockingScript: bytes.Clone(input.UnlockingScript),
			Sequence:        input.Sequence,
		}
	}

	for i, output := range tx.Outputs {
		c.Outputs[i] = &Output{
			Amount:        output.Amount,
			LockingScript: bytes.Clone(output.LockingScript),
		}
	}

	return c
}

// SigHash returns the hash input index signs over: every other unlocking script blanked,
// this input's replaced by lockingScript, followed by the SIGHASH_ALL byte.
func (tx *Transaction) SigHash(index int, lockingScript []byte) (chainhash.Hash, error) {
	if index < 0 || index >= len(tx.Inputs) {
		return chainhash.Hash{}, errors.NewInvalidArgumentError("input index %d out of range [0,%d)", index, len(tx.Inputs))
	}

	view := tx.Clone()
	for i, input := range view.Inputs {
		if i == index {
			input.UnlockingScript = bytes.Clone(lockingScript)
		} else {
			input.UnlockingScript = []byte{}
		}
	}

	preimage := append(view.Bytes(), script.SigHashAll)

	return chainhash.DoubleHashH(preimage), nil
}

// HashAll computes the sighash of every input, lockingScripts[i] being the script spent by input i.
func (tx *Transaction) HashAll(lockingScripts [][]byte) ([]chainhash.Hash, error) {
	if len(lockingScripts) != len(tx.Inputs) {
		return nil, errors.NewInvalidArgumentError("got %d locking scripts for %d inputs", len(lockingScripts), len(tx.Inputs))
	}

	hashes := make([]chainhash.Hash, len(tx.Inputs))

	for i := range tx.Inputs {
		h, err := tx.SigHash(i, lockingScripts[i])
		if err != nil {
			return nil, err
		}

		hashes[i] = h
	}

	return hashes, nil
}

// Sign signs every input with privateKey. Each input must still hold the locking
// script of the output it spends; all sighashes are taken before any input is rewritten.
func (tx *Transaction) Sign(privateKey *bec.PrivateKey) error {
	if tx.IsCoinbase() {
		return errors.NewTxInvalidError("coinbase transactions are not signed")
	}

	lockingScripts := make([][]byte, len(tx.Inputs))
	for i, input := range tx.Inputs {
		lockingScripts[i] = input.UnlockingScript
	}

	hashes, err := tx.HashAll(lockingScripts)
	if err != nil {
		return err
	}

	unlockingScripts := make([][]byte, len(tx.Inputs))

	for i := range tx.Inputs {
		signature, publicKey, err := wallet.Sign(hashes[i][:], privateKey)
		if err != nil {
			return err
		}

		if unlockingScripts[i], err = script.EncodeUnlockingScript(signature, script.SigHashAll, publicKey); err != nil {
			return err
		}
	}

	for i, input := range tx.Inputs {
		input.UnlockingScript = unlockingScripts[i]
	}

	return nil
}

// Validate checks every input against relevantUtxos: the referenced output must be
// known, its script must accept the input, and the inputs must cover the outputs.
// Coinbase transactions are the caller's responsibility and are rejected here.
func (tx *Transaction) Validate(relevantUtxos []*Utxo) error {
	txHash := tx.TxHash()

	if err := tx.checkInputs(); err != nil {
		return err
	}

	if len(tx.Outputs) == 0 {
		return errors.NewTxInvalidError("[Validate][%s] transaction has no outputs", txHash)
	}

	byOutPoint := make(map[OutPoint]*Utxo, len(relevantUtxos))
	for _, u := range relevantUtxos {
		byOutPoint[u.OutPoint()] = u
	}

	var totalIn uint64

	for i, input := range tx.Inputs {
		u, ok := byOutPoint[input.PreviousOutput]
		if !ok {
			return errors.NewUtxoNotFoundError("[Validate][%s] input %d spends unknown utxo %s", txHash, i, input.PreviousOutput)
		}

		sighash, err := tx.SigHash(i, u.Output.LockingScript)
		if err != nil {
			return err
		}

		if err = script.Execute(input.UnlockingScript, u.Output.LockingScript, sighash[:]); err != nil {
			return errors.NewScriptError("[Validate][%s] input %d failed script check", txHash, i, err)
		}

		if totalIn+u.Output.Amount < totalIn {
			return errors.NewTxInvalidError("[Validate][%s] input amounts overflow", txHash)
		}

		totalIn += u.Output.Amount
	}

	totalOut, err := tx.TotalOutputAmount()
	if err != nil {
		return err
	}

	if totalIn < totalOut {
		return errors.NewTxInsufficientInputsError("[Validate][%s] inputs %d do not cover outputs %d", txHash, totalIn, totalOut)
	}

	return nil
}

func (tx *Transaction) checkInputs() error {
	if len(tx.Inputs) == 0 {
		return errors.NewTxInvalidError("transaction has no inputs")
	}

	seen := make(map[OutPoint]struct{}, len(tx.Inputs))

	for i, input := range tx.Inputs {
		if input.PreviousOutput.IsCoinbase() {
			return errors.NewTxInvalidError("input %d spends the coinbase sentinel", i)
		}

		if _, ok := seen[input.PreviousOutput]; ok {
			return errors.NewTxInvalidError("input %d spends %s twice", i, input.PreviousOutput)
		}

		seen[input.PreviousOutput] = struct{}{}
	}

	return nil
}

// TotalOutputAmount sums the output amounts, failing on overflow.
func (tx *Transaction) TotalOutputAmount() (uint64, error) {
	var total uint64

	for _, output := range tx.Outputs {
		if total+output.Amount < total {
			return 0, errors.NewTxInvalidError("output amounts overflow")
		}

		total += output.Amount
	}

	return total, nil
}

// PubKeys returns the public keys carried by the signed inputs.
func (tx *Transaction) PubKeys() [][]byte {
	if tx.IsCoinbase() {
		return nil
	}

	keys := make([][]byte, 0, len(tx.Inputs))

	for _, input := range tx.Inputs {
		unlocking, err := script.DecodeUnlockingScript(input.UnlockingScript)
		if err != nil {
			continue
		}

		keys = append(keys, unlocking.PublicKey)
	}

	return keys
}
