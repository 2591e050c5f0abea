// Package sql stores the chain in a single blocks table on sqlite or postgres.
package sql

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/settings"
	"github.com/bsv-blockchain/ritcoin/ulogger"
	"github.com/bsv-blockchain/ritcoin/util"
	"github.com/bsv-blockchain/ritcoin/util/usql"
	"github.com/ordishs/gocore"
)

type SQL struct {
	db     *usql.DB
	engine util.SQLEngine
	logger ulogger.Logger
}

var stat = gocore.NewStat("blockchain")

func New(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*SQL, error) {
	logger = logger.New("bcsql")

	db, err := util.InitSQLDB(logger, storeURL, tSettings.DataFolder)
	if err != nil {
		return nil, errors.NewStorageError("failed to init sql db", err)
	}

	switch util.SQLEngine(storeURL.Scheme) {
	case util.Postgres:
		if err = createPostgresSchema(db); err != nil {
			return nil, errors.NewStorageError("failed to create postgres schema", err)
		}

	case util.Sqlite, util.SqliteMemory:
		if err = createSqliteSchema(db); err != nil {
			return nil, errors.NewStorageError("failed to create sqlite schema", err)
		}

	default:
		return nil, errors.NewStorageError("unknown database engine: %s", storeURL.Scheme)
	}

	return &SQL{
		db:     db,
		engine: util.SQLEngine(storeURL.Scheme),
		logger: logger,
	}, nil
}

func (s *SQL) GetDB() *usql.DB {
	return s.db
}

func (s *SQL) GetDBEngine() util.SQLEngine {
	return s.engine
}

func (s *SQL) Health(ctx context.Context) (int, string, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return http.StatusServiceUnavailable, "Database connection error", errors.NewStorageUnavailableError("blockchain db ping failed", err)
	}

	return http.StatusOK, "OK", nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func createPostgresSchema(db *usql.DB) error {
	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS blocks (
	    id              BIGSERIAL PRIMARY KEY
	    ,height         BIGINT NOT NULL
	    ,hash           BYTEA NOT NULL
	    ,previous_hash  BYTEA NOT NULL
	    ,merkle_root    BYTEA NOT NULL
	    ,block_time     BIGINT NOT NULL
	    ,nonce          BIGINT NOT NULL
	    ,tx_count       BIGINT NOT NULL
	    ,block_bytes    BYTEA NOT NULL
	    ,inserted_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create blocks table", err)
	}

	return createIndexes(db)
}

func createSqliteSchema(db *usql.DB) error {
	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS blocks (
	    id              INTEGER PRIMARY KEY AUTOINCREMENT
	    ,height         BIGINT NOT NULL
	    ,hash           BLOB NOT NULL
	    ,previous_hash  BLOB NOT NULL
	    ,merkle_root    BLOB NOT NULL
	    ,block_time     BIGINT NOT NULL
	    ,nonce          BIGINT NOT NULL
	    ,tx_count       BIGINT NOT NULL
	    ,block_bytes    BLOB NOT NULL
	    ,inserted_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create blocks table", err)
	}

	return createIndexes(db)
}

func createIndexes(db *usql.DB) error {
	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_blocks_height ON blocks (height);`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create ux_blocks_height index", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_blocks_hash ON blocks (hash);`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create idx_blocks_hash index", err)
	}

	return nil
}
