package blockchain

import (
	"context"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/stores/utxo"
)

// ApplyBlock appends block to the chain if it still builds on the current tip. A moved
// tip is reported as a stale tip error and nothing changes. On success the utxo set,
// the block store and the pending pool are all updated.
func (b *BlockChain) ApplyBlock(ctx context.Context, block *model.Block) error {
	if err := b.lock(ctx); err != nil {
		return err
	}
	defer b.unlock()

	height := uint32(len(b.blocks))

	if tip := b.tipHash(); block.Header.HashPrevBlock != tip {
		return errors.NewStaleTipError("[ApplyBlock][%s] builds on %s, tip is %s", block.Hash(), block.Header.HashPrevBlock, tip)
	}

	txs, err := b.checkBlock(block, height, b.utxos)
	if err != nil {
		return err
	}

	if err = b.utxos.Apply(txs); err != nil {
		return errors.NewBlockInvalidError("[ApplyBlock][%s] could not apply transactions", block.Hash(), err)
	}

	if err = b.store.StoreBlock(ctx, block, height); err != nil {
		if rebuildErr := b.utxos.Rebuild(b.blocks); rebuildErr != nil {
			b.logger.Errorf("[ApplyBlock][%s] could not restore utxo set: %v", block.Hash(), rebuildErr)
		}

		return errors.NewStorageError("[ApplyBlock][%s] could not store block at height %d", block.Hash(), height, err)
	}

	b.blocks = append(b.blocks, block)

	if len(block.Transactions) > 1 {
		if err = b.pool.Remove(ctx, block.Transactions[1:]); err != nil {
			b.logger.Warnf("[ApplyBlock][%s] could not remove mined transactions from the pending pool: %v", block.Hash(), err)
		}
	}

	prometheusBlockchainApplyBlock.Inc()
	prometheusBlockchainLength.Set(float64(len(b.blocks)))

	b.logger.Infof("[ApplyBlock] block %d %s with %d transactions", height, block.Hash(), len(block.Transactions))

	return nil
}

// checkBlock checks a block meant for height against utxoSet and returns its parsed transactions.
func (b *BlockChain) checkBlock(block *model.Block, height uint32, utxoSet utxo.Store) ([]*model.Transaction, error) {
	if !block.CheckProofOfWork(b.settings.Chain.Difficulty) {
		return nil, errors.NewBlockInvalidError("[checkBlock][%s] hash does not have %d leading zero bytes", block.Hash(), b.settings.Chain.Difficulty)
	}

	if b.settings.Chain.VerifyMerkleRoot && !block.CheckMerkleRoot() {
		return nil, errors.NewBlockInvalidError("[checkBlock][%s] merkle root mismatch", block.Hash())
	}

	if err := block.ValidateCoinbase(height, b.settings.Chain.CoinbaseReward); err != nil {
		return nil, err
	}

	if height == 0 && len(block.Transactions) != 1 {
		return nil, errors.NewBlockInvalidError("[checkBlock][%s] genesis block must only hold its coinbase", block.Hash())
	}

	if err := block.ValidateTransactions(utxoSet); err != nil {
		return nil, err
	}

	return block.ParsedTransactions()
}
