// Package memory implements the utxo set in memory with swiss map indexes.
package memory

import (
	"bytes"
	"sort"
	"sync"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/script"
	"github.com/bsv-blockchain/ritcoin/stores/utxo"
	"github.com/bsv-blockchain/ritcoin/ulogger"
	"github.com/bsv-blockchain/ritcoin/wallet"
	"github.com/dolthub/swiss"
)

type pubKeyHash [wallet.PubKeyHashLength]byte

type entry struct {
	utxo *model.Utxo
	seq  uint64
}

// Memory keeps every utxo in an outpoint map. P2PKH outputs are also indexed by the
// pubkey hash they pay, anything else lands in others and is always scanned.
type Memory struct {
	mu           sync.RWMutex
	logger       ulogger.Logger
	utxos        *swiss.Map[model.OutPoint, *entry]
	byPubKeyHash *swiss.Map[pubKeyHash, *swiss.Map[model.OutPoint, *entry]]
	others       *swiss.Map[model.OutPoint, *entry]
	seq          uint64
}

var _ utxo.Store = (*Memory)(nil)

func New(logger ulogger.Logger) *Memory {
	m := &Memory{logger: logger}
	m.reset()

	return m
}

func (m *Memory) reset() {
	m.utxos = swiss.NewMap[model.OutPoint, *entry](1024)
	m.byPubKeyHash = swiss.NewMap[pubKeyHash, *swiss.Map[model.OutPoint, *entry]](256)
	m.others = swiss.NewMap[model.OutPoint, *entry](16)
	m.seq = 0
}

func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()
}

func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.utxos.Count()
}

func (m *Memory) Get(outpoint model.OutPoint) (*model.Utxo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.utxos.Get(outpoint)
	if !ok {
		return nil, false
	}

	return e.utxo, true
}

func (m *Memory) All() []*model.Utxo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*entry, 0, m.utxos.Count())

	m.utxos.Iter(func(_ model.OutPoint, e *entry) bool {
		entries = append(entries, e)
		return false
	})

	return sorted(entries)
}

func (m *Memory) ByPubKeyHash(query []byte) []*model.Utxo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*entry

	collect := func(_ model.OutPoint, e *entry) bool {
		if bytes.Contains(e.utxo.Output.LockingScript, query) {
			entries = append(entries, e)
		}

		return false
	}

	if !indexable(query) {
		m.utxos.Iter(collect)
		return sorted(entries)
	}

	var key pubKeyHash

	copy(key[:], query)

	if indexed, ok := m.byPubKeyHash.Get(key); ok {
		indexed.Iter(func(_ model.OutPoint, e *entry) bool {
			entries = append(entries, e)
			return false
		})
	}

	m.others.Iter(collect)

	return sorted(entries)
}

// indexable reports whether every P2PKH script containing query holds it as its pubkey hash.
// A 20 byte window over the 24 byte template that starts inside the prefix begins with one
// of the prefix opcodes, one ending inside the suffix ends with one of the suffix opcodes.
func indexable(query []byte) bool {
	if len(query) != wallet.PubKeyHashLength {
		return false
	}

	switch query[0] {
	case 0x76, 0xa9:
		return false
	}

	switch query[len(query)-1] {
	case 0x88, 0xac:
		return false
	}

	return true
}

func sorted(entries []*entry) []*model.Utxo {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	utxos := make([]*model.Utxo, len(entries))
	for i, e := range entries {
		utxos[i] = e.utxo
	}

	return utxos
}

func (m *Memory) Apply(txs []*model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.apply(txs)
}

func (m *Memory) apply(txs []*model.Transaction) error {
	// check the whole batch first so that a failure leaves the set untouched
	spent := make(map[model.OutPoint]struct{})
	created := make(map[model.OutPoint]struct{})

	for i, tx := range txs {
		txHash := tx.TxHash()

		if !tx.IsCoinbase() {
			for _, input := range tx.Inputs {
				op := input.PreviousOutput

				if _, ok := spent[op]; ok {
					return errors.NewUtxoSpentError("[Apply] transaction %d (%s) spends %s a second time", i, txHash, op,
						errors.NewDoubleSpendError(op.TxID, op.Index, txHash))
				}

				_, inBatch := created[op]
				if !inBatch && !m.utxos.Has(op) {
					return errors.NewUtxoNotFoundError("[Apply] transaction %d (%s) spends unknown utxo %s", i, txHash, op)
				}

				spent[op] = struct{}{}
			}
		}

		for index := range tx.Outputs {
			op := model.OutPoint{TxID: txHash, Index: uint32(index)}

			_, inBatch := created[op]
			if inBatch || m.utxos.Has(op) {
				return errors.NewTxAlreadyExistsError("[Apply] transaction %d (%s) output %d already exists", i, txHash, index)
			}

			created[op] = struct{}{}
		}
	}

	for _, tx := range txs {
		if !tx.IsCoinbase() {
			for _, input := range tx.Inputs {
				m.remove(input.PreviousOutput)
			}
		}

		for _, u := range model.UtxosFromTransaction(tx) {
			m.insert(u)
		}
	}

	return nil
}

func (m *Memory) insert(u *model.Utxo) {
	m.seq++
	e := &entry{utxo: u, seq: m.seq}
	op := u.OutPoint()

	m.utxos.Put(op, e)

	pkh, err := script.PubKeyHashFromP2PKH(u.Output.LockingScript)
	if err != nil {
		m.others.Put(op, e)
		return
	}

	var key pubKeyHash

	copy(key[:], pkh)

	indexed, ok := m.byPubKeyHash.Get(key)
	if !ok {
		indexed = swiss.NewMap[model.OutPoint, *entry](8)
		m.byPubKeyHash.Put(key, indexed)
	}

	indexed.Put(op, e)
}

func (m *Memory) remove(op model.OutPoint) {
	e, ok := m.utxos.Get(op)
	if !ok {
		return
	}

	m.utxos.Delete(op)

	if m.others.Has(op) {
		m.others.Delete(op)
		return
	}

	pkh, err := script.PubKeyHashFromP2PKH(e.utxo.Output.LockingScript)
	if err != nil {
		return
	}

	var key pubKeyHash

	copy(key[:], pkh)

	if indexed, ok := m.byPubKeyHash.Get(key); ok {
		indexed.Delete(op)

		if indexed.Count() == 0 {
			m.byPubKeyHash.Delete(key)
		}
	}
}

func (m *Memory) SelectForSpend(pkh []byte, targetAmount uint64, reserved []*model.Transaction) ([]*model.Utxo, error) {
	available := utxo.ExcludeReserved(m.ByPubKeyHash(pkh), reserved)

	return utxo.SelectCoins(available, targetAmount)
}

func (m *Memory) Rebuild(chain []*model.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()

	for height, block := range chain {
		txs, err := block.ParsedTransactions()
		if err != nil {
			return err
		}

		if err = m.apply(txs); err != nil {
			return errors.NewProcessingError("[Rebuild] block %d (%s)", height, block.Hash(), err)
		}
	}

	m.logger.Debugf("[Rebuild] replayed %d blocks into %d utxos", len(chain), m.utxos.Count())

	return nil
}
