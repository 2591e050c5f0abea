package blockchain

import (
	"context"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/stores/utxo/memory"
	"github.com/ordishs/gocore"
)

var stat = gocore.NewStat("BlockChain")

// VerifyBlocks replays blocks from genesis into a fresh utxo set, checking every block
// against the state left by the blocks before it. A broken link between blocks[i] and
// blocks[i+1] is reported as a chain link error carrying index i, after the transactions
// of blocks[i+1] have been validated.
func (b *BlockChain) VerifyBlocks(blocks []*model.Block) error {
	start := gocore.CurrentTime()
	defer stat.NewStat("VerifyBlocks").AddTime(start)

	replay := memory.New(b.logger)

	for i, block := range blocks {
		if i == 0 && block.Header.HashPrevBlock != (chainhash.Hash{}) {
			return errors.NewBlockInvalidError("[VerifyBlocks] genesis block %s has previous hash %s", block.Hash(), block.Header.HashPrevBlock)
		}

		txs, err := b.checkBlock(block, uint32(i), replay)
		if err != nil {
			return errors.NewBlockInvalidError("[VerifyBlocks] block %d", i, err)
		}

		if err = replay.Apply(txs); err != nil {
			return errors.NewBlockInvalidError("[VerifyBlocks] block %d", i, err)
		}

		// the link is checked once the block's own transactions have passed
		if i > 0 {
			if prev := blocks[i-1].Hash(); prev != block.Header.HashPrevBlock {
				return errors.NewChainLinkError(i-1, "[VerifyBlocks] block %d hash %s is not the previous hash %s of block %d",
					i-1, prev, block.Header.HashPrevBlock, i)
			}
		}
	}

	return nil
}

// VerifyChain verifies the local chain as a standalone sequence. The lock is only held
// while the block list is copied.
func (b *BlockChain) VerifyChain(ctx context.Context) error {
	if err := b.lock(ctx); err != nil {
		return err
	}

	blocks := append([]*model.Block{}, b.blocks...)

	b.unlock()

	start := time.Now()

	err := b.VerifyBlocks(blocks)

	prometheusBlockchainVerifyChain.Observe(float64(time.Since(start).Microseconds()) / 1_000)

	return err
}
