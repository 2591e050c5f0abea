package blockchain

import (
	"context"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
)

// ProposeBlock builds the next candidate on the current tip: a coinbase for the miner
// followed by pending transactions that still validate against the utxo set. Pending
// transactions that can no longer be mined are dropped from the pool. The candidate is
// validated before it is returned, and carries no proof of work.
func (b *BlockChain) ProposeBlock(ctx context.Context) (*model.Block, error) {
	if err := b.lock(ctx); err != nil {
		return nil, err
	}
	defer b.unlock()

	height := uint32(len(b.blocks))

	coinbase, err := model.NewCoinbase(b.minerPubKeyHash, height, b.settings.Chain.CoinbaseReward)
	if err != nil {
		return nil, err
	}

	if height == 0 {
		return model.NewBlockAt(b.tipHash(), [][]byte{coinbase.Bytes()}, b.clock()), nil
	}

	selected, err := b.selectPending(ctx)
	if err != nil {
		return nil, err
	}

	transactions := make([][]byte, 0, len(selected)+1)
	transactions = append(transactions, coinbase.Bytes())
	transactions = append(transactions, selected...)

	block := model.NewBlockAt(b.tipHash(), transactions, b.clock())

	if err = block.ValidateTransactions(b.utxos); err != nil {
		return nil, errors.NewBlockInvalidError("[ProposeBlock] candidate at height %d", height, err)
	}

	b.logger.Debugf("[ProposeBlock] candidate at height %d with %d pending transactions", height, len(selected))

	return block, nil
}

// selectPending walks the front of the pool in order, keeping every transaction that is valid
// on its own and does not spend an outpoint an earlier kept transaction already spends.
// Must be called with the state lock held.
func (b *BlockChain) selectPending(ctx context.Context) ([][]byte, error) {
	queued, err := b.pool.Peek(ctx, b.settings.Chain.MaxTransactionsPerBlock)
	if err != nil {
		return nil, err
	}

	var (
		selected [][]byte
		evicted  [][]byte
		spent    = make(map[model.OutPoint]struct{})
	)

	for _, raw := range queued {
		tx, err := model.NewTransactionFromBytes(raw)
		if err != nil {
			b.logger.Warnf("[ProposeBlock] dropping unparsable pending transaction: %v", err)
			evicted = append(evicted, raw)

			continue
		}

		if tx.IsCoinbase() {
			b.logger.Warnf("[ProposeBlock] dropping pending coinbase %s", tx.TxHash())
			evicted = append(evicted, raw)

			continue
		}

		if spendsAny(tx, spent) {
			b.logger.Warnf("[ProposeBlock] dropping pending transaction %s: conflicts with an earlier one", tx.TxHash())
			evicted = append(evicted, raw)

			continue
		}

		if err = tx.Validate(model.RelevantUtxos([]*model.Transaction{tx}, b.utxos)); err != nil {
			b.logger.Warnf("[ProposeBlock] dropping pending transaction %s: %v", tx.TxHash(), err)
			evicted = append(evicted, raw)

			continue
		}

		for _, input := range tx.Inputs {
			spent[input.PreviousOutput] = struct{}{}
		}

		selected = append(selected, raw)
	}

	if len(evicted) > 0 {
		if err = b.pool.Remove(ctx, evicted); err != nil {
			return nil, err
		}

		prometheusBlockchainTxEvicted.Add(float64(len(evicted)))
	}

	return selected, nil
}

func spendsAny(tx *model.Transaction, spent map[model.OutPoint]struct{}) bool {
	for _, input := range tx.Inputs {
		if _, ok := spent[input.PreviousOutput]; ok {
			return true
		}
	}

	return false
}
