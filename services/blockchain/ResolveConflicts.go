package blockchain

import (
	"context"
	"sort"
	"time"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/util/retry"
	"golang.org/x/sync/errgroup"
)

const (
	maxConcurrentPeerFetches = 8
	peerFetchRetries         = 3
)

// ResolveConflicts fetches the chain of every known peer and adopts the longest one that is
// strictly longer than the local chain and verifies from genesis. Peers that cannot be
// reached or serve an invalid chain are skipped. It reports whether a chain was adopted.
func (b *BlockChain) ResolveConflicts(ctx context.Context) (bool, error) {
	if b.peerClient == nil {
		return false, errors.NewServiceError("[ResolveConflicts] no peer client configured")
	}

	if err := b.finiteStateMachine.Event(ctx, FSMEventCatchupBlocks); err != nil {
		return false, errors.NewServiceError("[ResolveConflicts] cannot catch up in state %s", b.State(), err)
	}
	defer b.fireEvent(FSMEventCaughtUp)

	if err := b.lock(ctx); err != nil {
		return false, err
	}

	peers := append([]string{}, b.peers...)
	localLength := len(b.blocks)

	b.unlock()

	candidates := b.fetchPeerChains(ctx, peers, localLength)

	// longest first, ties keep peer order
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Length() > candidates[j].Length()
	})

	for _, candidate := range candidates {
		if err := b.VerifyBlocks(candidate.Blocks); err != nil {
			b.logger.Warnf("[ResolveConflicts] rejecting chain of length %d: %v", candidate.Length(), err)
			continue
		}

		adopted, err := b.adoptChain(ctx, candidate.Blocks)
		if err != nil {
			return false, err
		}

		if adopted {
			return true, nil
		}
	}

	b.logger.Infof("[ResolveConflicts] local chain of length %d kept", localLength)

	return false, nil
}

// fetchPeerChains returns the chains longer than minLength served by peers, in peer order.
func (b *BlockChain) fetchPeerChains(ctx context.Context, peers []string, minLength int) []*model.ChainSnapshot {
	results := make([]*model.ChainSnapshot, len(peers))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPeerFetches)

	for i, peer := range peers {
		g.Go(func() error {
			fetchCtx := gCtx

			if timeout := b.settings.Asset.PeerFetchTimeout; timeout > 0 {
				var cancel context.CancelFunc

				fetchCtx, cancel = context.WithTimeout(gCtx, timeout)
				defer cancel()
			}

			snapshot, err := retry.Retry(fetchCtx, b.logger, func() (*model.ChainSnapshot, error) {
				return b.peerClient.FetchChain(fetchCtx, peer)
			}, peerFetchRetries, 2, 100*time.Millisecond, errors.IsRetryableError, "[ResolveConflicts] fetching chain from "+peer)
			if err != nil {
				b.logger.Warnf("[ResolveConflicts] could not fetch chain from %s: %v", peer, err)
				return nil
			}

			if snapshot.Length() > minLength {
				results[i] = snapshot
			}

			return nil
		})
	}

	_ = g.Wait()

	candidates := make([]*model.ChainSnapshot, 0, len(results))

	for _, snapshot := range results {
		if snapshot != nil {
			candidates = append(candidates, snapshot)
		}
	}

	return candidates
}

// adoptChain replaces the local chain with blocks if they are still longer, rebuilding the
// utxo set by replaying them.
func (b *BlockChain) adoptChain(ctx context.Context, blocks []*model.Block) (bool, error) {
	if err := b.lock(ctx); err != nil {
		return false, err
	}
	defer b.unlock()

	if len(blocks) <= len(b.blocks) {
		return false, nil
	}

	if err := b.utxos.Rebuild(blocks); err != nil {
		b.restoreUtxos()
		return false, err
	}

	if err := b.store.ReplaceChain(ctx, blocks); err != nil {
		b.restoreUtxos()
		return false, errors.NewStorageError("[adoptChain] could not persist chain of length %d", len(blocks), err)
	}

	b.logger.Infof("[adoptChain] replaced chain of length %d with chain of length %d", len(b.blocks), len(blocks))

	b.blocks = append([]*model.Block{}, blocks...)

	prometheusBlockchainChainsAdopted.Inc()
	prometheusBlockchainLength.Set(float64(len(b.blocks)))

	return true, nil
}

func (b *BlockChain) restoreUtxos() {
	if err := b.utxos.Rebuild(b.blocks); err != nil {
		b.logger.Errorf("[BlockChain] could not restore utxo set for the local chain: %v", err)
	}
}
