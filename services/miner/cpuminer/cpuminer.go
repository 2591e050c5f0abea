// Package cpuminer searches the nonce space of a block header on the CPU.
package cpuminer

import (
	"context"
	"math"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/ulogger"
	"go.uber.org/atomic"
)

// checkEvery is how many nonces are tried between context and clock checks.
const checkEvery = 1 << 10

var (
	hashesTried  = atomic.NewUint64(0)
	blocksSolved = atomic.NewUint64(0)
)

// HashesTried returns the number of header hashes computed by this process.
func HashesTried() uint64 {
	return hashesTried.Load()
}

func BlocksSolved() uint64 {
	return blocksSolved.Load()
}

type Options struct {
	clock           func() time.Time
	refreshInterval time.Duration
	logger          ulogger.Logger
}

type Option func(*Options)

func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.clock = clock
	}
}

// WithRefreshInterval sets how much wall-clock time may pass before the header timestamp is renewed.
func WithRefreshInterval(interval time.Duration) Option {
	return func(o *Options) {
		o.refreshInterval = interval
	}
}

func WithLogger(logger ulogger.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// Mine increments the nonce of block until its hash starts with difficulty zero bytes.
// The search can be abandoned through ctx at any nonce, the block is then left half-searched
// and must be discarded.
func Mine(ctx context.Context, block *model.Block, difficulty int, opts ...Option) error {
	initPrometheusMetrics()

	options := &Options{
		clock:           time.Now,
		refreshInterval: 2 * time.Second,
		logger:          ulogger.TestLogger{},
	}

	for _, opt := range opts {
		opt(options)
	}

	if difficulty < 0 || difficulty > chainhash.HashSize {
		return errors.NewInvalidArgumentError("[Mine] difficulty %d outside [0,%d]", difficulty, chainhash.HashSize)
	}

	start := time.Now()

	var tried uint64

	defer func() {
		hashesTried.Add(tried)
		prometheusHashesTried.Add(float64(tried))
	}()

	for {
		tried++

		if block.CheckProofOfWork(difficulty) {
			blocksSolved.Inc()
			prometheusBlockMined.Observe(time.Since(start).Seconds())

			options.logger.Infof("[Mine] solved block %s after %d hashes in %s", block.Hash(), tried, time.Since(start))

			return nil
		}

		if tried%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				prometheusMineCancelled.Inc()
				return errors.NewContextCanceledError("[Mine] abandoned at nonce %d", block.Header.Nonce, err)
			}

			if block.RefreshTimestampIfStale(options.clock(), options.refreshInterval) {
				options.logger.Debugf("[Mine] refreshed timestamp to %d at nonce %d", block.Header.Timestamp, block.Header.Nonce)
			}
		}

		if block.Header.Nonce == math.MaxUint32 {
			timestamp := block.Header.Timestamp

			// a new second gives a fresh nonce space
			block.RefreshTimestampIfStale(options.clock(), 0)

			if block.Header.Timestamp == timestamp {
				return errors.NewThresholdExceededError("[Mine] nonce overflow at timestamp %d", timestamp)
			}

			block.Header.Nonce = 0

			continue
		}

		block.IncrementNonce()
	}
}
