package blockchain

import (
	"context"

	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/stretchr/testify/mock"
)

// MockPeerClient implements PeerClient for testing purposes
type MockPeerClient struct {
	mock.Mock
}

func (m *MockPeerClient) FetchChain(ctx context.Context, peer string) (*model.ChainSnapshot, error) {
	args := m.Called(ctx, peer)

	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*model.ChainSnapshot), nil
}
