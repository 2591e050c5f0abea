package sql

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/settings"
	"github.com/bsv-blockchain/ritcoin/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, rawURL string) *SQL {
	t.Helper()

	storeURL, err := url.Parse(rawURL)
	require.NoError(t, err)

	s, err := New(ulogger.TestLogger{}, storeURL, &settings.Settings{DataFolder: t.TempDir()})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// testChain links n blocks, each holding one coinbase.
func testChain(t *testing.T, n int) []*model.Block {
	t.Helper()

	pkh := make([]byte, 20)
	prev := chainhash.Hash{}
	blocks := make([]*model.Block, n)

	for i := 0; i < n; i++ {
		coinbase, err := model.NewCoinbase(pkh, uint32(i), 50)
		require.NoError(t, err)

		blocks[i] = model.NewBlockAt(prev, [][]byte{coinbase.Bytes()}, time.Unix(1700000000+int64(i), 0))
		blocks[i].Header.Nonce = uint32(i * 7)
		prev = blocks[i].Hash()
	}

	return blocks
}

func hashes(blocks []*model.Block) []chainhash.Hash {
	out := make([]chainhash.Hash, len(blocks))
	for i, b := range blocks {
		out[i] = b.Hash()
	}

	return out
}

func TestSQLStoreAndGetBlocks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "sqlitememory:///")

	blocks, err := s.GetBlocks(ctx)
	require.NoError(t, err)
	assert.Empty(t, blocks)

	chain := testChain(t, 3)
	for height, block := range chain {
		require.NoError(t, s.StoreBlock(ctx, block, uint32(height)))
	}

	stored, err := s.GetBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, hashes(chain), hashes(stored))
	assert.Equal(t, chain[2].Transactions, stored[2].Transactions)

	count, err := s.GetBlockCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSQLStoreBlockRejectsWrongHeight(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "sqlitememory:///")
	chain := testChain(t, 3)

	require.NoError(t, s.StoreBlock(ctx, chain[0], 0))

	err := s.StoreBlock(ctx, chain[1], 0)
	assert.True(t, errors.Is(err, errors.ErrBlockExists))

	err = s.StoreBlock(ctx, chain[2], 2)
	assert.True(t, errors.Is(err, errors.ErrBlockInvalid))

	count, err := s.GetBlockCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLReplaceChain(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "sqlitememory:///")

	local := testChain(t, 2)
	for height, block := range local {
		require.NoError(t, s.StoreBlock(ctx, block, uint32(height)))
	}

	longer := testChain(t, 4)

	require.NoError(t, s.ReplaceChain(ctx, longer))

	stored, err := s.GetBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, hashes(longer), hashes(stored))
}

func TestSQLiteFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dataFolder := t.TempDir()
	tSettings := &settings.Settings{DataFolder: dataFolder}

	storeURL, err := url.Parse("sqlite:///chain")
	require.NoError(t, err)

	s, err := New(ulogger.TestLogger{}, storeURL, tSettings)
	require.NoError(t, err)

	chain := testChain(t, 2)
	for height, block := range chain {
		require.NoError(t, s.StoreBlock(ctx, block, uint32(height)))
	}

	require.NoError(t, s.Close())

	s, err = New(ulogger.TestLogger{}, storeURL, tSettings)
	require.NoError(t, err)

	defer func() {
		_ = s.Close()
	}()

	stored, err := s.GetBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, hashes(chain), hashes(stored))
}

func TestSQLHealth(t *testing.T) {
	s := newTestStore(t, "sqlitememory:///")

	status, msg, err := s.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", msg)
}
