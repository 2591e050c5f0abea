package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/bsv-blockchain/ritcoin/stores/pendingpool"
)

type Memory struct {
	mu  sync.Mutex
	txs [][]byte
}

var _ pendingpool.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{}
}

func (m *Memory) Add(_ context.Context, tx []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.txs = append(m.txs, bytes.Clone(tx))

	return nil
}

func (m *Memory) Peek(_ context.Context, n int) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return pendingpool.Head(m.txs, n), nil
}

func (m *Memory) Remove(_ context.Context, txs [][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.txs = pendingpool.Without(m.txs, txs)

	return nil
}

func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.txs), nil
}
