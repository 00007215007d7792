// Package notify subscribes to the postgres NOTIFY channel the repositories
// signal after committing LPO mutations. Consumers use it to drop derived
// state (the dashboard cache) the moment the collection changes, instead of
// waiting out the cache TTL.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/procurehq/lpoflow/internal/config"
)

// Channel is the NOTIFY channel carrying LPO change events.
const Channel = "lpo_changes"

const (
	minReconnect = time.Second
	maxReconnect = 30 * time.Second
	pingEvery    = time.Minute
)

// Event is one LPO collection change.
type Event struct {
	Op    string `json:"op"`
	LpoID string `json:"lpo_id"`
}

// Handler reacts to one change event.
type Handler func(ctx context.Context, ev Event)

// Listener maintains a LISTEN subscription with reconnect.
type Listener struct {
	connStr string
	handler Handler
}

func NewListener(cfg *config.DatabaseConfig, handler Handler) *Listener {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
	return &Listener{connStr: connStr, handler: handler}
}

// Run blocks handling events until the context is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.connStr, minReconnect, maxReconnect, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn().Err(err).Int("event", int(ev)).Msg("pg listener state change")
		}
	})
	defer listener.Close()

	if err := listener.Listen(Channel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", Channel, err)
	}
	log.Info().Str("channel", Channel).Msg("listening for lpo changes")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-listener.Notify:
			if n == nil {
				// Connection was re-established; notifications may have
				// been missed, so emit a synthetic resync event.
				l.handler(ctx, Event{Op: "resync"})
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
				log.Warn().Err(err).Str("payload", n.Extra).Msg("bad change payload")
				continue
			}
			l.handler(ctx, ev)
		case <-time.After(pingEvery):
			if err := listener.Ping(); err != nil {
				log.Warn().Err(err).Msg("pg listener ping failed")
			}
		}
	}
}
