package blockchain

import (
	"bytes"
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/jellydator/ttlcache/v3"
)

// AcceptTransaction validates a serialized transaction against the current utxo set and the
// pending pool and queues it. With dryRun the transaction is only validated.
func (b *BlockChain) AcceptTransaction(ctx context.Context, raw []byte, dryRun bool) (chainhash.Hash, error) {
	txHash, err := b.acceptTransaction(ctx, raw, dryRun)
	if err != nil {
		prometheusBlockchainTxRejected.Inc()
		return txHash, err
	}

	if !dryRun {
		prometheusBlockchainTxAccepted.Inc()
	}

	return txHash, nil
}

func (b *BlockChain) acceptTransaction(ctx context.Context, raw []byte, dryRun bool) (chainhash.Hash, error) {
	tx, err := model.NewTransactionFromBytes(raw)
	if err != nil {
		return chainhash.Hash{}, err
	}

	txHash := tx.TxHash()

	if tx.IsCoinbase() {
		return txHash, errors.NewTxInvalidError("[AcceptTransaction][%s] coinbase transactions are only created by miners", txHash)
	}

	b.seenTxs.DeleteExpired()

	if b.seenTxs.Get(txHash) != nil {
		return txHash, errors.NewTxAlreadyExistsError("[AcceptTransaction][%s] transaction was already accepted", txHash)
	}

	if err = b.lock(ctx); err != nil {
		return txHash, err
	}
	defer b.unlock()

	if err = tx.Validate(model.RelevantUtxos([]*model.Transaction{tx}, b.utxos)); err != nil {
		return txHash, err
	}

	queued, err := b.pool.Peek(ctx, 0)
	if err != nil {
		return txHash, err
	}

	if err = checkPendingConflicts(tx, raw, queued); err != nil {
		return txHash, err
	}

	if dryRun {
		b.logger.Debugf("[AcceptTransaction][%s] valid, not queued", txHash)
		return txHash, nil
	}

	if err = b.pool.Add(ctx, raw); err != nil {
		return txHash, err
	}

	b.seenTxs.Set(txHash, struct{}{}, ttlcache.DefaultTTL)

	b.logger.Infof("[AcceptTransaction][%s] queued", txHash)

	return txHash, nil
}

// checkPendingConflicts rejects tx when it is already queued or spends an outpoint a
// queued transaction spends.
func checkPendingConflicts(tx *model.Transaction, raw []byte, queued [][]byte) error {
	for _, other := range queued {
		if bytes.Equal(other, raw) {
			return errors.NewTxAlreadyExistsError("[AcceptTransaction][%s] transaction is already pending", tx.TxHash())
		}

		pending, err := model.NewTransactionFromBytes(other)
		if err != nil {
			continue
		}

		for _, input := range tx.Inputs {
			for _, pendingInput := range pending.Inputs {
				if input.PreviousOutput == pendingInput.PreviousOutput {
					return errors.NewDoubleSpendError(input.PreviousOutput.TxID, input.PreviousOutput.Index, pending.TxHash())
				}
			}
		}
	}

	return nil
}
