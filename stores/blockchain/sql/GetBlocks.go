package sql

import (
	"context"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/ordishs/gocore"
)

func (s *SQL) GetBlocks(ctx context.Context) ([]*model.Block, error) {
	start := gocore.CurrentTime()
	defer stat.NewStat("GetBlocks").AddTime(start)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := `
		SELECT height, block_bytes
		FROM blocks
		ORDER BY height ASC
	`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.NewStorageError("[GetBlocks] failed to query blocks", err)
	}

	defer rows.Close()

	var blocks []*model.Block

	for rows.Next() {
		var (
			height     int64
			blockBytes []byte
		)

		if err = rows.Scan(&height, &blockBytes); err != nil {
			return nil, errors.NewStorageError("[GetBlocks] failed to scan row", err)
		}

		if height != int64(len(blocks)) {
			return nil, errors.NewStorageError("[GetBlocks] expected height %d, found %d", len(blocks), height)
		}

		block, err := model.NewBlockFromBytes(blockBytes)
		if err != nil {
			return nil, errors.NewStorageError("[GetBlocks] block at height %d is corrupt", height, err)
		}

		blocks = append(blocks, block)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.NewStorageError("[GetBlocks] failed to read rows", err)
	}

	return blocks, nil
}

func (s *SQL) GetBlockCount(ctx context.Context) (int, error) {
	var count int

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blocks`).Scan(&count); err != nil {
		return 0, errors.NewStorageError("[GetBlockCount] failed to count blocks", err)
	}

	return count, nil
}
