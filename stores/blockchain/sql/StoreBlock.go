package sql

import (
	"context"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/util/usql"
	"github.com/ordishs/gocore"
)

const insertBlock = `
	INSERT INTO blocks (height, hash, previous_hash, merkle_root, block_time, nonce, tx_count, block_bytes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (s *SQL) StoreBlock(ctx context.Context, block *model.Block, height uint32) error {
	start := gocore.CurrentTime()
	defer stat.NewStat("StoreBlock").AddTime(start)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("[StoreBlock] failed to begin transaction", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	var count int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM blocks`).Scan(&count); err != nil {
		return errors.NewStorageError("[StoreBlock] failed to count blocks", err)
	}

	switch {
	case int(height) < count:
		return errors.NewBlockExistsError("[StoreBlock][%s] height %d is already stored", block.Hash(), height)
	case int(height) > count:
		return errors.NewBlockInvalidError("[StoreBlock][%s] height %d leaves a gap after %d blocks", block.Hash(), height, count)
	}

	if err = insert(ctx, tx, block, height); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.NewStorageError("[StoreBlock][%s] failed to commit", block.Hash(), err)
	}

	s.logger.Debugf("[StoreBlock] stored block %s at height %d", block.Hash(), height)

	return nil
}

func insert(ctx context.Context, tx *usql.Tx, block *model.Block, height uint32) error {
	hash := block.Hash()

	if _, err := tx.ExecContext(ctx, insertBlock,
		height,
		hash[:],
		block.Header.HashPrevBlock[:],
		block.Header.HashMerkleRoot[:],
		block.Header.Timestamp,
		block.Header.Nonce,
		len(block.Transactions),
		block.Bytes(),
	); err != nil {
		return errors.NewStorageError("[StoreBlock][%s] failed to insert block at height %d", hash, height, err)
	}

	return nil
}
