package blockchain

import (
	"context"
	"time"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/services/miner/cpuminer"
	"github.com/bsv-blockchain/ritcoin/util/retry"
)

// MineNext proposes a block, searches for its proof of work without holding the state lock
// and appends it. When another block lands first the attempt is thrown away and retried on
// the new tip, up to Chain.StaleTipRetries times. A negative setting means no retries.
func (b *BlockChain) MineNext(ctx context.Context) (*model.Block, error) {
	if err := b.finiteStateMachine.Event(ctx, FSMEventMine); err != nil {
		return nil, errors.NewServiceError("[MineNext] cannot mine in state %s", b.State(), err)
	}
	defer b.fireEvent(FSMEventMined)

	isStaleTip := func(err error) bool {
		return errors.Is(err, errors.ErrStaleTip)
	}

	return retry.Retry(ctx, b.logger, func() (*model.Block, error) {
		return b.mineOnce(ctx)
	}, max(b.settings.Chain.StaleTipRetries, 0)+1, 1, 10*time.Millisecond, isStaleTip, "[MineNext] chain tip moved while mining")
}

func (b *BlockChain) mineOnce(ctx context.Context) (*model.Block, error) {
	block, err := b.ProposeBlock(ctx)
	if err != nil {
		return nil, err
	}

	if err = cpuminer.Mine(ctx, block, b.settings.Chain.Difficulty,
		cpuminer.WithClock(b.clock),
		cpuminer.WithRefreshInterval(b.settings.Chain.TimestampRefreshInterval),
		cpuminer.WithLogger(b.logger),
	); err != nil {
		return nil, err
	}

	if err = b.ApplyBlock(ctx, block); err != nil {
		return nil, err
	}

	return block, nil
}
