package sql

import (
	"context"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/ordishs/gocore"
)

func (s *SQL) ReplaceChain(ctx context.Context, blocks []*model.Block) error {
	start := gocore.CurrentTime()
	defer stat.NewStat("ReplaceChain").AddTime(start)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("[ReplaceChain] failed to begin transaction", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM blocks`); err != nil {
		return errors.NewStorageError("[ReplaceChain] failed to delete blocks", err)
	}

	for height, block := range blocks {
		if err = insert(ctx, tx, block, uint32(height)); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.NewStorageError("[ReplaceChain] failed to commit", err)
	}

	s.logger.Infof("[ReplaceChain] stored chain of %d blocks", len(blocks))

	return nil
}
