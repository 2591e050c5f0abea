// Package blockchain owns the local chain, its utxo set and the peer list, and exposes
// them only through whole operations that each take the single state lock.
package blockchain

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/settings"
	blockchain_store "github.com/bsv-blockchain/ritcoin/stores/blockchain"
	"github.com/bsv-blockchain/ritcoin/stores/pendingpool"
	"github.com/bsv-blockchain/ritcoin/stores/utxo"
	"github.com/bsv-blockchain/ritcoin/stores/utxo/memory"
	"github.com/bsv-blockchain/ritcoin/ulogger"
	"github.com/jellydator/ttlcache/v3"
	"github.com/looplab/fsm"
	"golang.org/x/sync/semaphore"
)

const seenTxTTL = 10 * time.Minute

type BlockChain struct {
	logger          ulogger.Logger
	settings        *settings.Settings
	store           blockchain_store.Store
	pool            pendingpool.Store
	utxos           utxo.Store
	peerClient      PeerClient
	minerPubKeyHash []byte
	clock           func() time.Time

	// state guards blocks, utxos and peers as one unit
	state  *semaphore.Weighted
	blocks []*model.Block
	peers  []string

	finiteStateMachine *fsm.FSM
	seenTxs            *ttlcache.Cache[chainhash.Hash, struct{}]
}

// New creates a stopped BlockChain. Call Load before using it.
func New(logger ulogger.Logger, tSettings *settings.Settings, store blockchain_store.Store, pool pendingpool.Store,
	peerClient PeerClient, minerPubKeyHash []byte, opts ...Option) *BlockChain {
	initPrometheusMetrics()

	b := &BlockChain{
		logger:          logger,
		settings:        tSettings,
		store:           store,
		pool:            pool,
		peerClient:      peerClient,
		minerPubKeyHash: minerPubKeyHash,
		clock:           time.Now,
		state:           semaphore.NewWeighted(1),
		seenTxs:         ttlcache.New[chainhash.Hash, struct{}](ttlcache.WithTTL[chainhash.Hash, struct{}](seenTxTTL)),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.utxos == nil {
		b.utxos = memory.New(logger)
	}

	b.finiteStateMachine = b.NewFiniteStateMachine()

	return b
}

func (b *BlockChain) lock(ctx context.Context) error {
	if err := b.state.Acquire(ctx, 1); err != nil {
		return errors.NewStateAccessError("could not acquire chain state", err)
	}

	return nil
}

func (b *BlockChain) unlock() {
	b.state.Release(1)
}

func (b *BlockChain) fireEvent(event string) {
	if err := b.finiteStateMachine.Event(context.Background(), event); err != nil {
		b.logger.Debugf("[BlockChain] event %s ignored in state %s: %v", event, b.State(), err)
	}
}

// Load rebuilds the chain and the utxo set from the block store and starts the state machine.
func (b *BlockChain) Load(ctx context.Context) error {
	if !b.finiteStateMachine.Can(FSMEventRun) {
		return errors.NewServiceError("[Load] blockchain already running in state %s", b.State())
	}

	blocks, err := b.store.GetBlocks(ctx)
	if err != nil {
		return err
	}

	if err = b.VerifyBlocks(blocks); err != nil {
		return errors.NewProcessingError("[Load] stored chain failed verification", err)
	}

	if err = b.lock(ctx); err != nil {
		return err
	}

	if err = b.utxos.Rebuild(blocks); err != nil {
		b.unlock()
		return err
	}

	b.blocks = blocks

	for _, peer := range b.settings.Asset.Peers {
		if err = b.addPeer(peer); err != nil {
			b.logger.Warnf("[Load] skipping configured peer %q: %v", peer, err)
		}
	}

	b.unlock()

	prometheusBlockchainLength.Set(float64(len(blocks)))

	b.logger.Infof("[Load] loaded %d blocks, %d utxos", len(blocks), b.utxos.Count())

	if err = b.finiteStateMachine.Event(ctx, FSMEventRun); err != nil {
		return errors.NewServiceError("[Load] could not start", err)
	}

	return nil
}

func (b *BlockChain) Stop() {
	b.fireEvent(FSMEventStop)
	b.seenTxs.DeleteAll()
}

func (b *BlockChain) Health(ctx context.Context) (int, string, error) {
	return b.store.Health(ctx)
}

// AddPeer registers a peer base URL. Addresses without a scheme are taken as http.
func (b *BlockChain) AddPeer(ctx context.Context, address string) error {
	if err := b.lock(ctx); err != nil {
		return err
	}
	defer b.unlock()

	return b.addPeer(address)
}

func (b *BlockChain) addPeer(address string) error {
	peer, err := normalizePeer(address)
	if err != nil {
		return err
	}

	for _, known := range b.peers {
		if known == peer {
			return nil
		}
	}

	b.peers = append(b.peers, peer)
	b.logger.Infof("[AddPeer] added peer %s", peer)

	return nil
}

func normalizePeer(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", errors.NewInvalidArgumentError("empty peer address")
	}

	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return "", errors.NewInvalidArgumentError("invalid peer address %q", address, err)
	}

	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", errors.NewInvalidArgumentError("invalid peer address %q", address)
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (b *BlockChain) Peers(ctx context.Context) ([]string, error) {
	if err := b.lock(ctx); err != nil {
		return nil, err
	}
	defer b.unlock()

	return append([]string{}, b.peers...), nil
}

func (b *BlockChain) Length(ctx context.Context) (int, error) {
	if err := b.lock(ctx); err != nil {
		return 0, err
	}
	defer b.unlock()

	return len(b.blocks), nil
}

// Snapshot copies the chain and the utxo set as they are at one instant.
func (b *BlockChain) Snapshot(ctx context.Context) (*model.ChainSnapshot, error) {
	if err := b.lock(ctx); err != nil {
		return nil, err
	}
	defer b.unlock()

	return &model.ChainSnapshot{
		Blocks: append([]*model.Block{}, b.blocks...),
		Utxos:  b.utxos.All(),
	}, nil
}

func (b *BlockChain) UtxosFor(ctx context.Context, pubKeyHash []byte) ([]*model.Utxo, error) {
	if err := b.lock(ctx); err != nil {
		return nil, err
	}
	defer b.unlock()

	return b.utxos.ByPubKeyHash(pubKeyHash), nil
}

func (b *BlockChain) Balance(ctx context.Context, pubKeyHash []byte) (uint64, error) {
	if err := b.lock(ctx); err != nil {
		return 0, err
	}
	defer b.unlock()

	return utxo.Balance(b.utxos, pubKeyHash), nil
}

// SelectForSpend picks utxos of pubKeyHash covering target, skipping outputs spent by reserved.
func (b *BlockChain) SelectForSpend(ctx context.Context, pubKeyHash []byte, target uint64,
	reserved []*model.Transaction) ([]*model.Utxo, error) {
	if err := b.lock(ctx); err != nil {
		return nil, err
	}
	defer b.unlock()

	return b.utxos.SelectForSpend(pubKeyHash, target, reserved)
}

func (b *BlockChain) tipHash() chainhash.Hash {
	if len(b.blocks) == 0 {
		return chainhash.Hash{}
	}

	return b.blocks[len(b.blocks)-1].Hash()
}
