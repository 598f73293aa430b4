// Package postgres implements the vote and message store ports on Cloud SQL
// for PostgreSQL using a pgx connection pool. It connects over TCP or over
// the Unix socket the Cloud SQL connector mounts under /cloudsql.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/message"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/vote"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/config"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

const healthName = "votes-db"

const schema = `
CREATE TABLE IF NOT EXISTS votes (
  vote_id SERIAL NOT NULL,
  time_cast TIMESTAMPTZ NOT NULL,
  candidate VARCHAR(6) NOT NULL,
  PRIMARY KEY (vote_id)
);
CREATE TABLE IF NOT EXISTS messages (
  id SERIAL NOT NULL,
  message_id TEXT NOT NULL DEFAULT '',
  data TEXT NOT NULL,
  attributes JSONB,
  publish_time TIMESTAMPTZ,
  received_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (id)
);`

var (
	_ ports.VoteStore     = (*VoteStore)(nil)
	_ ports.MessageStore  = (*MessageStore)(nil)
	_ ports.HealthChecker = (*DB)(nil)
)

// DB owns the connection pool shared by the stores.
type DB struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open creates a pool from cfg. The pool connects lazily; use HealthCheck
// to verify connectivity.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	pc, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns) //nolint:gosec // validated >= 1, small
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	logger.InfoContext(ctx, "database pool created",
		slog.String("database", cfg.Name),
		slog.String("mode", mode(cfg)),
		slog.Int("max_conns", int(pc.MaxConns)),
	)
	return &DB{pool: pool, logger: logger}, nil
}

// Close releases every pooled connection.
func (db *DB) Close() {
	db.pool.Close()
}

// EnsureSchema creates the votes and messages tables if missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return unavailable("creating schema", err)
	}
	return nil
}

// Name implements ports.HealthChecker.
func (db *DB) Name() string { return healthName }

// HealthCheck pings the database.
func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Votes returns the vote store backed by db.
func (db *DB) Votes() *VoteStore { return &VoteStore{db: db} }

// Messages returns the message store backed by db.
func (db *DB) Messages() *MessageStore { return &MessageStore{db: db} }

// VoteStore implements ports.VoteStore.
type VoteStore struct {
	db *DB
}

// EnsureSchema creates the tables if missing.
func (s *VoteStore) EnsureSchema(ctx context.Context) error {
	return s.db.EnsureSchema(ctx)
}

// Insert records a vote.
func (s *VoteStore) Insert(ctx context.Context, v vote.Vote) error {
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO votes (time_cast, candidate) VALUES ($1, $2)`,
		v.CastAt, string(v.Candidate))
	if err != nil {
		return unavailable("inserting vote", err)
	}
	return nil
}

// Recent returns up to limit votes, newest first.
func (s *VoteStore) Recent(ctx context.Context, limit int) ([]vote.Vote, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT candidate, time_cast FROM votes ORDER BY time_cast DESC LIMIT $1`, limit)
	if err != nil {
		return nil, unavailable("querying recent votes", err)
	}
	defer rows.Close()

	out := make([]vote.Vote, 0, limit)
	for rows.Next() {
		var (
			candidate string
			castAt    time.Time
		)
		if err := rows.Scan(&candidate, &castAt); err != nil {
			return nil, unavailable("scanning vote", err)
		}
		out = append(out, vote.Vote{Candidate: vote.Candidate(candidate), CastAt: castAt})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("reading votes", err)
	}
	return out, nil
}

// Tally counts votes per candidate.
func (s *VoteStore) Tally(ctx context.Context) (vote.Tally, error) {
	rows, err := s.db.pool.Query(ctx, `SELECT candidate, COUNT(vote_id) FROM votes GROUP BY candidate`)
	if err != nil {
		return vote.Tally{}, unavailable("counting votes", err)
	}
	defer rows.Close()

	var t vote.Tally
	for rows.Next() {
		var (
			candidate string
			n         int64
		)
		if err := rows.Scan(&candidate, &n); err != nil {
			return vote.Tally{}, unavailable("scanning tally", err)
		}
		switch vote.Candidate(candidate) {
		case vote.Tabs:
			t.Tabs = int(n)
		case vote.Spaces:
			t.Spaces = int(n)
		}
	}
	if err := rows.Err(); err != nil {
		return vote.Tally{}, unavailable("reading tally", err)
	}
	return t, nil
}

// MessageStore implements ports.MessageStore.
type MessageStore struct {
	db *DB
}

// Save stores a received message.
func (s *MessageStore) Save(ctx context.Context, msg message.Message) error {
	var publishTime *time.Time
	if !msg.PublishTime.IsZero() {
		publishTime = &msg.PublishTime
	}
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO messages (message_id, data, attributes, publish_time) VALUES ($1, $2, $3, $4)`,
		msg.ID, msg.Data, msg.Attributes, publishTime)
	if err != nil {
		return unavailable("inserting message", err)
	}
	return nil
}

// Recent returns up to limit messages, newest first.
func (s *MessageStore) Recent(ctx context.Context, limit int) ([]message.Message, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT message_id, data, attributes, publish_time FROM messages ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, unavailable("querying messages", err)
	}
	defer rows.Close()

	out := make([]message.Message, 0, limit)
	for rows.Next() {
		var (
			m           message.Message
			publishTime *time.Time
		)
		if err := rows.Scan(&m.ID, &m.Data, &m.Attributes, &publishTime); err != nil {
			return nil, unavailable("scanning message", err)
		}
		if publishTime != nil {
			m.PublishTime = *publishTime
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("reading messages", err)
	}
	return out, nil
}

// DSN builds a libpq key/value connection string. A configured Unix socket
// directory takes precedence over host and port. Empty values and a zero
// port are left out so libpq defaults apply.
func DSN(cfg config.DatabaseConfig) string {
	pairs := [][2]string{
		{"user", cfg.User},
		{"password", cfg.Password},
		{"dbname", cfg.Name},
	}
	if cfg.UnixSocket != "" {
		pairs = append(pairs, [2]string{"host", cfg.UnixSocket})
	} else {
		pairs = append(pairs, [2]string{"host", cfg.Host})
		if cfg.Port > 0 {
			pairs = append(pairs, [2]string{"port", strconv.Itoa(cfg.Port)})
		}
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		parts = append(parts, p[0]+"="+quote(p[1]))
	}
	return strings.Join(parts, " ")
}

// quote escapes a DSN value, quoting it when it contains spaces or quotes.
func quote(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func mode(cfg config.DatabaseConfig) string {
	if cfg.UnixSocket != "" {
		return "unix"
	}
	return "tcp"
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, op, err)
}
