package blockchain

import (
	"context"
	"net/http"
	"sync"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
)

// MockStore keeps the chain in memory. Err, when set, is returned by every write.
type MockStore struct {
	mu     sync.Mutex
	Blocks []*model.Block
	Err    error
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Health(_ context.Context) (int, string, error) {
	return http.StatusOK, "OK", nil
}

func (m *MockStore) StoreBlock(_ context.Context, block *model.Block, height uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	if int(height) != len(m.Blocks) {
		return errors.NewBlockExistsError("block at height %d, chain has %d blocks", height, len(m.Blocks))
	}

	m.Blocks = append(m.Blocks, block)

	return nil
}

func (m *MockStore) GetBlocks(_ context.Context) ([]*model.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*model.Block{}, m.Blocks...), nil
}

func (m *MockStore) GetBlockCount(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Blocks), nil
}

func (m *MockStore) ReplaceChain(_ context.Context, blocks []*model.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.Blocks = append([]*model.Block{}, blocks...)

	return nil
}

func (m *MockStore) Close() error {
	return nil
}
