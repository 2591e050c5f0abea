package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/stores/pendingpool/tests"
	"github.com/bsv-blockchain/ritcoin/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) (*File, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data", "pending_pool.txt")

	f, err := New(ulogger.TestLogger{}, path)
	require.NoError(t, err)

	return f, path
}

func TestFile(t *testing.T) {
	t.Run("file fifo", func(t *testing.T) {
		f, _ := newTestFile(t)
		tests.FIFO(t, f)
	})

	t.Run("file remove", func(t *testing.T) {
		f, _ := newTestFile(t)
		tests.Remove(t, f)
	})
}

func TestFormatLine(t *testing.T) {
	assert.Equal(t, "[1, 0, 255]", FormatLine([]byte{1, 0, 255}))
	assert.Equal(t, "[]", FormatLine(nil))
}

func TestParseLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []byte
	}{
		{"spaced", "[1, 0, 255]", []byte{1, 0, 255}},
		{"padded", " [1,2] ", []byte{1, 2}},
		{"empty", "[]", []byte{}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tx)
		})
	}
}

func TestParseLineRejectsCorruption(t *testing.T) {
	for _, line := range []string{"[1, 300, 2]", "[7, x, 9]", "[1, , 2]", "1, 2", "[1, 2"} {
		_, err := ParseLine(line)
		require.Error(t, err, line)
		assert.True(t, errors.Is(err, errors.ErrEncoding), line)
	}
}

func TestFileSkipsCorruptedLines(t *testing.T) {
	ctx := context.Background()
	f, path := newTestFile(t)

	require.NoError(t, os.WriteFile(path, []byte("[3]\n[1, 300, 2]\n[2, 16, 32]\n"), 0o644))

	txs, err := f.Peek(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{tests.Tx3, tests.Tx2}, txs)
}

func TestFileLayout(t *testing.T) {
	ctx := context.Background()
	f, path := newTestFile(t)

	require.NoError(t, f.Add(ctx, tests.Tx2))
	require.NoError(t, f.Add(ctx, tests.Tx3))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2, 16, 32]\n[3]\n", string(b))

	require.NoError(t, f.Remove(ctx, [][]byte{tests.Tx2}))

	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[3]\n", string(b))
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	f, path := newTestFile(t)

	require.NoError(t, f.Add(ctx, tests.Tx1))

	reopened, err := New(ulogger.TestLogger{}, path)
	require.NoError(t, err)

	txs, err := reopened.Peek(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{tests.Tx1}, txs)
}

func TestFileMissingIsEmpty(t *testing.T) {
	f, _ := newTestFile(t)

	n, err := f.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
