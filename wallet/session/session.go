// Package session is the wallet a CLI user drives: one key, plus the transactions it has
// signed but that have not been mined yet, so that two sends never pick the same utxo.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/ulogger"
	"github.com/bsv-blockchain/ritcoin/wallet"
	"github.com/google/uuid"
)

// Node answers utxo queries for the wallet.
type Node interface {
	SelectForSpend(ctx context.Context, pubKeyHash []byte, target uint64, reserved []*model.Transaction) ([]*model.Utxo, error)
	Balance(ctx context.Context, pubKeyHash []byte) (uint64, error)
}

// Broadcaster hands a signed transaction to a node.
type Broadcaster interface {
	AcceptTransaction(ctx context.Context, raw []byte, dryRun bool) (chainhash.Hash, error)
}

type Session struct {
	id          uuid.UUID
	logger      ulogger.Logger
	node        Node
	broadcaster Broadcaster

	mu       sync.Mutex
	key      *wallet.Key
	reserved []*model.Transaction
}

func New(logger ulogger.Logger, node Node, broadcaster Broadcaster) *Session {
	id := uuid.New()

	return &Session{
		id:          id,
		logger:      logger.New("wallet-" + id.String()[:8]),
		node:        node,
		broadcaster: broadcaster,
	}
}

func (s *Session) ID() string {
	return s.id.String()
}

func (s *Session) Key() *wallet.Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.key
}

// SetKey switches the session to key and forgets every reservation made with the old one.
func (s *Session) SetKey(key *wallet.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = key
	s.reserved = nil

	s.logger.Infof("[Session] using address %s", key.Address)
}

func (s *Session) Reserved() []*model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*model.Transaction{}, s.reserved...)
}

// Send builds and signs a transaction paying amount to address, with any change returned to
// the session's own address. The spent utxos stay reserved until the session ends or the
// node rejects the transaction.
func (s *Session) Send(ctx context.Context, address string, amount uint64) (*model.Transaction, error) {
	if amount == 0 {
		return nil, errors.NewInvalidArgumentError("amount must be positive")
	}

	receiver, err := wallet.PubKeyHashFromAddress(address)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("invalid receiver address %q", address, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil {
		return nil, errors.NewInvalidArgumentError("no wallet key loaded, use new or import first")
	}

	utxos, err := s.node.SelectForSpend(ctx, s.key.PubKeyHash, amount, s.reserved)
	if err != nil {
		return nil, err
	}

	inputs := make([]*model.Input, len(utxos))
	for i, u := range utxos {
		inputs[i] = u.Input()
	}

	output, err := model.NewOutput(receiver, amount)
	if err != nil {
		return nil, err
	}

	outputs := []*model.Output{output}

	if change := model.TotalAmount(utxos) - amount; change > 0 {
		changeOutput, err := model.NewOutput(s.key.PubKeyHash, change)
		if err != nil {
			return nil, err
		}

		outputs = append(outputs, changeOutput)
	}

	tx := model.NewTransaction(inputs, outputs)

	if err = tx.Sign(s.key.PrivateKey); err != nil {
		return nil, err
	}

	s.reserved = append(s.reserved, tx)

	s.logger.Infof("[Session] signed %s paying %d to %s from %d utxos", tx.TxHash(), amount, address, len(utxos))

	return tx, nil
}

// Broadcast submits a serialized transaction. A rejected transaction releases its reservation.
func (s *Session) Broadcast(ctx context.Context, raw []byte, dryRun bool) (chainhash.Hash, error) {
	txHash, err := s.broadcaster.AcceptTransaction(ctx, raw, dryRun)
	if err != nil {
		if tx, parseErr := model.NewTransactionFromBytes(raw); parseErr == nil {
			s.release(tx.TxHash())
		}

		return txHash, err
	}

	return txHash, nil
}

func (s *Session) release(txHash chainhash.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.reserved {
		if tx.TxHash() == txHash {
			s.reserved = append(s.reserved[:i], s.reserved[i+1:]...)
			s.logger.Debugf("[Session] released reservation of %s", txHash)

			return
		}
	}
}

// Balance returns the confirmed balance of address, or of the session key when address is empty.
func (s *Session) Balance(ctx context.Context, address string) (uint64, error) {
	var pubKeyHash []byte

	if address == "" {
		key := s.Key()
		if key == nil {
			return 0, errors.NewInvalidArgumentError("no wallet key loaded, use new or import first")
		}

		pubKeyHash = key.PubKeyHash
	} else {
		var err error

		if pubKeyHash, err = wallet.PubKeyHashFromAddress(address); err != nil {
			return 0, errors.NewInvalidArgumentError("invalid address %q", address, err)
		}
	}

	return s.node.Balance(ctx, pubKeyHash)
}

// Submitter posts transactions to a node by URL.
type Submitter interface {
	SubmitTransaction(ctx context.Context, node string, raw []byte, dryRun bool) (chainhash.Hash, error)
}

type remoteBroadcaster struct {
	submitter Submitter
	nodeURL   string
	timeout   time.Duration
}

// NewRemoteBroadcaster broadcasts through the HTTP API of the node at nodeURL.
func NewRemoteBroadcaster(submitter Submitter, nodeURL string, timeout time.Duration) Broadcaster {
	return &remoteBroadcaster{
		submitter: submitter,
		nodeURL:   nodeURL,
		timeout:   timeout,
	}
}

func (r *remoteBroadcaster) AcceptTransaction(ctx context.Context, raw []byte, dryRun bool) (chainhash.Hash, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	return r.submitter.SubmitTransaction(ctx, r.nodeURL, raw, dryRun)
}
