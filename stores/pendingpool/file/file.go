// Package file keeps the pending pool in a flat text file, one transaction per line
// written as a bracketed list of decimal byte values, e.g. [1, 0, 0, 0].
package file

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/stores/pendingpool"
	"github.com/bsv-blockchain/ritcoin/ulogger"
)

type File struct {
	mu     sync.Mutex
	path   string
	logger ulogger.Logger
}

var _ pendingpool.Store = (*File)(nil)

func New(logger ulogger.Logger, path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.NewIOError("[PendingPool] failed to create folder for %s", path, err)
	}

	return &File{
		path:   path,
		logger: logger,
	}, nil
}

// FormatLine renders tx the way it is stored in the pool file.
func FormatLine(tx []byte) string {
	var sb strings.Builder

	sb.Grow(len(tx)*5 + 2)
	sb.WriteByte('[')

	for i, b := range tx {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(strconv.Itoa(int(b)))
	}

	sb.WriteByte(']')

	return sb.String()
}

// ParseLine is the inverse of FormatLine. Every element must be a decimal byte value.
func ParseLine(line string) ([]byte, error) {
	line = strings.TrimSpace(line)

	inner, ok := strings.CutPrefix(line, "[")
	if ok {
		inner, ok = strings.CutSuffix(inner, "]")
	}

	if !ok {
		return nil, errors.NewEncodingError("pending pool line is not a bracketed list")
	}

	if strings.TrimSpace(inner) == "" {
		return []byte{}, nil
	}

	fields := strings.Split(inner, ",")
	tx := make([]byte, len(fields))

	for i, field := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 8)
		if err != nil {
			return nil, errors.NewEncodingError("pending pool element %d is not a byte: %q", i, field, err)
		}

		tx[i] = byte(v)
	}

	return tx, nil
}

func (f *File) Add(_ context.Context, tx []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.NewIOError("[PendingPool] failed to open %s", f.path, err)
	}

	if _, err = file.WriteString(FormatLine(tx) + "\n"); err != nil {
		_ = file.Close()
		return errors.NewIOError("[PendingPool] failed to append to %s", f.path, err)
	}

	if err = file.Close(); err != nil {
		return errors.NewIOError("[PendingPool] failed to close %s", f.path, err)
	}

	return nil
}

func (f *File) Peek(_ context.Context, n int) ([][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	txs, err := f.read()
	if err != nil {
		return nil, err
	}

	return pendingpool.Head(txs, n), nil
}

// Remove reads the whole pool and rewrites it without txs.
func (f *File) Remove(_ context.Context, txs [][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	queued, err := f.read()
	if err != nil {
		return err
	}

	kept := pendingpool.Without(queued, txs)
	if len(kept) == len(queued) {
		return nil
	}

	var buf bytes.Buffer
	for _, tx := range kept {
		buf.WriteString(FormatLine(tx))
		buf.WriteByte('\n')
	}

	tmp := f.path + ".tmp"

	if err = os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return errors.NewIOError("[PendingPool] failed to write %s", tmp, err)
	}

	if err = os.Rename(tmp, f.path); err != nil {
		return errors.NewIOError("[PendingPool] failed to replace %s", f.path, err)
	}

	f.logger.Debugf("[PendingPool] removed %d transactions, %d left", len(queued)-len(kept), len(kept))

	return nil
}

func (f *File) Len(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	txs, err := f.read()
	if err != nil {
		return 0, err
	}

	return len(txs), nil
}

func (f *File) read() ([][]byte, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.NewIOError("[PendingPool] failed to open %s", f.path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	var txs [][]byte

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		tx, err := ParseLine(line)
		if err != nil {
			f.logger.Warnf("[PendingPool] skipping line %d of %s: %v", lineNo, f.path, err)
			continue
		}

		txs = append(txs, tx)
	}

	if err = scanner.Err(); err != nil {
		return nil, errors.NewIOError("[PendingPool] failed to read %s", f.path, err)
	}

	return txs, nil
}
