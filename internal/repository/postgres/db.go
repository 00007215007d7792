package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/procurehq/lpoflow/internal/config"
)

// lpoChangeChannel is the NOTIFY channel repos signal after committing a
// mutation to the lpos table. cmd/notifier listens on it.
const lpoChangeChannel = "lpo_changes"

// errRollbackFailed marks a transaction whose rollback did not complete
// after a failed step, meaning partial effects may have been left behind.
var errRollbackFailed = errors.New("transaction rollback failed")

type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

var (
	dbInstance *DB
	once       sync.Once
)

// NewDB creates the shared database connection pool.
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	var err error
	once.Do(func() {
		connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

		var db *sqlx.DB
		db, err = sqlx.Connect("postgres", connStr)
		if err != nil {
			return
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		dbInstance = &DB{
			DB:  db,
			sem: semaphore.NewWeighted(10),
		}
	})

	return dbInstance, err
}

// WithTx executes fn within a transaction, rolling back on error.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
			return fmt.Errorf("%w after %v: %v", errRollbackFailed, err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// notifyLpoChange fires a best-effort NOTIFY after a committed mutation so
// listeners can invalidate derived state. Failure to notify is logged, not
// surfaced: the write has already succeeded.
func notifyLpoChange(ctx context.Context, db *DB, op, lpoID string) {
	payload := fmt.Sprintf(`{"op":%q,"lpo_id":%q}`, op, lpoID)
	if _, err := db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, lpoChangeChannel, payload); err != nil {
		log.Warn().Err(err).Str("op", op).Msg("failed to notify lpo change")
	}
}
