// Package blockchain persists the accepted chain so a node can restart without re-mining.
package blockchain

import (
	"context"

	"github.com/bsv-blockchain/ritcoin/model"
)

type Store interface {
	Health(ctx context.Context) (int, string, error)
	// StoreBlock appends block at height, which must be the current block count.
	StoreBlock(ctx context.Context, block *model.Block, height uint32) error
	// GetBlocks returns the stored chain from genesis to tip.
	GetBlocks(ctx context.Context) ([]*model.Block, error)
	GetBlockCount(ctx context.Context) (int, error)
	// ReplaceChain atomically swaps the stored chain for blocks.
	ReplaceChain(ctx context.Context, blocks []*model.Block) error
	Close() error
}
