package blockchain

import (
	"context"

	"github.com/bsv-blockchain/ritcoin/model"
)

// PeerClient fetches the chain another node currently holds.
type PeerClient interface {
	FetchChain(ctx context.Context, peer string) (*model.ChainSnapshot, error)
}
