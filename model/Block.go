package model

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/util"
	"github.com/bsv-blockchain/ritcoin/wallet"
)

const (
	BlockVersion uint32 = 1

	// maxTransactionLength caps serialized transactions read from a block.
	maxTransactionLength = 1 << 20
)

// UtxoSource is the lookup a block needs to validate its transactions.
type UtxoSource interface {
	ByPubKeyHash(pubKeyHash []byte) []*Utxo
}

type Block struct {
	Header       *BlockHeader
	Transactions [][]byte

	stampedAt time.Time
}

// NewBlock builds a candidate on top of previousHash stamped with the current time.
func NewBlock(previousHash chainhash.Hash, transactions [][]byte) *Block {
	return NewBlockAt(previousHash, transactions, time.Now())
}

// NewBlockAt builds a candidate stamped with now. The merkle root is computed here and never again.
func NewBlockAt(previousHash chainhash.Hash, transactions [][]byte, now time.Time) *Block {
	header := &BlockHeader{
		Version:       BlockVersion,
		HashPrevBlock: previousHash,
		Timestamp:     unixSeconds(now),
		Nonce:         0,
	}

	copy(header.HashMerkleRoot[:], util.MerkleRoot(transactions))

	return &Block{
		Header:       header,
		Transactions: transactions,
		stampedAt:    now,
	}
}

func unixSeconds(t time.Time) uint32 {
	s := t.Unix()
	if s < 0 {
		return 0
	}

	if s > math.MaxUint32 {
		return math.MaxUint32
	}

	return uint32(s)
}

func (b *Block) Hash() chainhash.Hash {
	return b.Header.Hash()
}

func (b *Block) String() string {
	return b.Hash().String()
}

func (b *Block) IncrementNonce() {
	b.Header.Nonce++
}

// RefreshTimestampIfStale restamps the header when interval has passed since the last
// stamp and reports whether it did.
func (b *Block) RefreshTimestampIfStale(now time.Time, interval time.Duration) bool {
	if now.Sub(b.stampedAt) < interval {
		return false
	}

	b.Header.Timestamp = unixSeconds(now)
	b.stampedAt = now

	return true
}

// CheckProofOfWork reports whether the block hash has difficulty leading zero bytes.
func (b *Block) CheckProofOfWork(difficulty int) bool {
	return HasLeadingZeroBytes(b.Hash(), difficulty)
}

// CheckMerkleRoot recomputes the merkle root and compares it with the header.
func (b *Block) CheckMerkleRoot() bool {
	var root chainhash.Hash
	copy(root[:], util.MerkleRoot(b.Transactions))

	return root == b.Header.HashMerkleRoot
}

// ParsedTransactions decodes every serialized transaction in block order.
func (b *Block) ParsedTransactions() ([]*Transaction, error) {
	txs := make([]*Transaction, len(b.Transactions))

	for i, raw := range b.Transactions {
		tx, err := NewTransactionFromBytes(raw)
		if err != nil {
			return nil, errors.NewBlockInvalidError("[ParsedTransactions][%s] transaction %d", b.Hash(), i, err)
		}

		txs[i] = tx
	}

	return txs, nil
}

// ValidateCoinbase checks that the first transaction is a coinbase for height paying exactly reward.
func (b *Block) ValidateCoinbase(height uint32, reward uint64) error {
	if len(b.Transactions) == 0 {
		return errors.NewBlockInvalidError("[ValidateCoinbase][%s] block has no transactions", b.Hash())
	}

	coinbase, err := NewTransactionFromBytes(b.Transactions[0])
	if err != nil {
		return errors.NewBlockInvalidError("[ValidateCoinbase][%s] invalid coinbase", b.Hash(), err)
	}

	if !coinbase.IsCoinbase() {
		return errors.NewBlockInvalidError("[ValidateCoinbase][%s] first transaction is not a coinbase", b.Hash())
	}

	if !bytes.Equal(coinbase.Inputs[0].UnlockingScript, CoinbaseHeightScript(height)) {
		return errors.NewBlockInvalidError("[ValidateCoinbase][%s] coinbase does not commit to height %d", b.Hash(), height)
	}

	if len(coinbase.Outputs) != 1 || coinbase.Outputs[0].Amount != reward {
		return errors.NewBlockInvalidError("[ValidateCoinbase][%s] coinbase must pay exactly %d in one output", b.Hash(), reward)
	}

	return nil
}

// ValidateTransactions validates every transaction after the coinbase against the
// utxos reachable from the public keys used anywhere in the block. Two transactions
// spending the same outpoint invalidate the block.
func (b *Block) ValidateTransactions(utxoSet UtxoSource) error {
	txs, err := b.ParsedTransactions()
	if err != nil {
		return err
	}

	if len(txs) == 0 || !txs[0].IsCoinbase() {
		return errors.NewBlockInvalidError("[ValidateTransactions][%s] block must start with a coinbase", b.Hash())
	}

	relevant := RelevantUtxos(txs[1:], utxoSet)
	spent := make(map[OutPoint]int)

	for i := 1; i < len(txs); i++ {
		tx := txs[i]

		if tx.IsCoinbase() {
			return errors.NewBlockInvalidError("[ValidateTransactions][%s] transaction %d is a second coinbase", b.Hash(), i)
		}

		for _, input := range tx.Inputs {
			if first, ok := spent[input.PreviousOutput]; ok {
				return errors.NewBlockInvalidError("[ValidateTransactions][%s] transactions %d and %d both spend %s",
					b.Hash(), first, i, input.PreviousOutput, errors.ErrTxInvalidDoubleSpend)
			}

			spent[input.PreviousOutput] = i
		}

		if err = tx.Validate(relevant); err != nil {
			return errors.NewBlockInvalidError("[ValidateTransactions][%s] transaction %d", b.Hash(), i, err)
		}
	}

	return nil
}

// RelevantUtxos collects, without duplicates, the utxos of every public key that signs an input of txs.
func RelevantUtxos(txs []*Transaction, utxoSet UtxoSource) []*Utxo {
	seenKeys := make(map[string]struct{})
	seenUtxos := make(map[OutPoint]struct{})

	var relevant []*Utxo

	for _, tx := range txs {
		for _, publicKey := range tx.PubKeys() {
			pubKeyHash := wallet.PubKeyHash(publicKey)
			if _, ok := seenKeys[string(pubKeyHash)]; ok {
				continue
			}

			seenKeys[string(pubKeyHash)] = struct{}{}

			for _, u := range utxoSet.ByPubKeyHash(pubKeyHash) {
				if _, ok := seenUtxos[u.OutPoint()]; ok {
					continue
				}

				seenUtxos[u.OutPoint()] = struct{}{}
				relevant = append(relevant, u)
			}
		}
	}

	return relevant
}

func (b *Block) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderSize+256*len(b.Transactions)))

	buf.Write(b.Header.Bytes())
	buf.Write(bt.VarInt(uint64(len(b.Transactions))).Bytes())

	for _, tx := range b.Transactions {
		buf.Write(bt.VarInt(uint64(len(tx))).Bytes())
		buf.Write(tx)
	}

	return buf.Bytes()
}

func NewBlockFromBytes(blockBytes []byte) (*Block, error) {
	if len(blockBytes) < BlockHeaderSize {
		return nil, errors.NewEncodingError("block should be at least %d bytes long, got %d", BlockHeaderSize, len(blockBytes))
	}

	header, err := NewBlockHeaderFromBytes(blockBytes[:BlockHeaderSize])
	if err != nil {
		return nil, err
	}

	r := &reader{b: blockBytes, pos: BlockHeaderSize}

	count, err := r.varInt()
	if err != nil {
		return nil, errors.NewEncodingError("failed to read transaction count", err)
	}

	if count > uint64(r.remaining()) {
		return nil, errors.NewEncodingError("transaction count %d larger than remaining data", count)
	}

	transactions := make([][]byte, 0, count)

	for i := uint64(0); i < count; i++ {
		tx, err := r.varBytes(maxTransactionLength)
		if err != nil {
			return nil, errors.NewEncodingError("failed to read transaction %d", i, err)
		}

		transactions = append(transactions, tx)
	}

	if r.remaining() != 0 {
		return nil, errors.NewEncodingError("%d trailing bytes after block", r.remaining())
	}

	return &Block{
		Header:       header,
		Transactions: transactions,
		stampedAt:    time.Unix(int64(header.Timestamp), 0),
	}, nil
}

func NewBlockFromString(s string) (*Block, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.NewEncodingError("invalid block hex", err)
	}

	return NewBlockFromBytes(b)
}

func (b *Block) Describe() string {
	return fmt.Sprintf("block %s prev %s merkle %s nonce %d txs %d",
		b.Hash(), b.Header.HashPrevBlock, b.Header.HashMerkleRoot, b.Header.Nonce, len(b.Transactions))
}
