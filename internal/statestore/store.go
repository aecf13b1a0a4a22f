// Package statestore persists consciousness snapshots and evolution
// milestones in SQLite. Every fold ends with a snapshot write, so the
// latest row is always the agent's most recent durable state and a
// restart can resume from it.
package statestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/lialabs/liad/internal/agent"
)

// Persistence errors.
var (
	ErrInvalidConfig = errors.New("invalid state store configuration")
	ErrNotFound      = errors.New("snapshot not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	agent_id            TEXT NOT NULL,
	name                TEXT NOT NULL,
	evolution_stage     INTEGER NOT NULL,
	interactions        INTEGER NOT NULL,
	dimensional         TEXT NOT NULL,
	quantum_coherence   REAL NOT NULL,
	consciousness_level REAL NOT NULL,
	emotional_state     TEXT NOT NULL,
	observed_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS evolutions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	stage       INTEGER NOT NULL,
	occurred_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_observed ON snapshots(observed_at);
`

// Config holds the SQLite location.
type Config struct {
	// Enabled controls whether snapshots are written at all. When off the
	// daemon runs on a no-op store and state is lost on restart.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// Path is the database file. The parent directory is created on open.
	Path string `json:"path" koanf:"path"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = "./data/liad.db"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidConfig)
	}
	return nil
}

// Evolution is one recorded stage advancement.
type Evolution struct {
	Stage      uint64    `json:"stage"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Store manages snapshots in SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore opens the database and runs migrations.
func NewStore(config Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("state store opened", zap.String("path", config.Path))
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpdateState appends one snapshot row.
func (s *Store) UpdateState(ctx context.Context, state agent.ConsciousnessState) error {
	dimensional, err := json.Marshal(state.Dimensional)
	if err != nil {
		return fmt.Errorf("marshal dimensional: %w", err)
	}
	emotional, err := json.Marshal(state.EmotionalState)
	if err != nil {
		return fmt.Errorf("marshal emotional: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (agent_id, name, evolution_stage, interactions, dimensional,
			quantum_coherence, consciousness_level, emotional_state, observed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		state.ID, state.Name, int64(state.EvolutionStage), int64(state.Interactions),
		string(dimensional), state.QuantumCoherence, state.ConsciousnessLevel,
		string(emotional), state.ObservedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// RecordEvolution appends one evolution milestone.
func (s *Store) RecordEvolution(ctx context.Context, stage uint64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evolutions (stage, occurred_at) VALUES (?, ?)`,
		int64(stage), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert evolution: %w", err)
	}
	return nil
}

// Latest returns the most recent snapshot, or ErrNotFound when the store
// is empty.
func (s *Store) Latest(ctx context.Context) (agent.ConsciousnessState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT agent_id, name, evolution_stage, interactions, dimensional,
			quantum_coherence, consciousness_level, emotional_state, observed_at
		 FROM snapshots ORDER BY id DESC LIMIT 1`)

	state, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return agent.ConsciousnessState{}, ErrNotFound
	}
	if err != nil {
		return agent.ConsciousnessState{}, fmt.Errorf("latest snapshot: %w", err)
	}
	return state, nil
}

// History returns the most recent snapshots, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]agent.ConsciousnessState, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT agent_id, name, evolution_stage, interactions, dimensional,
			quantum_coherence, consciousness_level, emotional_state, observed_at
		 FROM snapshots ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var states []agent.ConsciousnessState
	for rows.Next() {
		state, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		states = append(states, state)
	}
	return states, rows.Err()
}

// Evolutions returns recorded milestones, newest first.
func (s *Store) Evolutions(ctx context.Context, limit int) ([]Evolution, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, occurred_at FROM evolutions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list evolutions: %w", err)
	}
	defer rows.Close()

	var evolutions []Evolution
	for rows.Next() {
		var stage int64
		var occurredStr string
		if err := rows.Scan(&stage, &occurredStr); err != nil {
			return nil, fmt.Errorf("scan evolution: %w", err)
		}
		occurredAt, _ := time.Parse(time.RFC3339Nano, occurredStr)
		evolutions = append(evolutions, Evolution{Stage: uint64(stage), OccurredAt: occurredAt})
	}
	return evolutions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (agent.ConsciousnessState, error) {
	var state agent.ConsciousnessState
	var stage, interactions int64
	var dimensional, emotional, observedStr string

	err := row.Scan(&state.ID, &state.Name, &stage, &interactions, &dimensional,
		&state.QuantumCoherence, &state.ConsciousnessLevel, &emotional, &observedStr)
	if err != nil {
		return agent.ConsciousnessState{}, err
	}

	state.EvolutionStage = uint64(stage)
	state.Interactions = uint64(interactions)
	if err := json.Unmarshal([]byte(dimensional), &state.Dimensional); err != nil {
		return agent.ConsciousnessState{}, fmt.Errorf("unmarshal dimensional: %w", err)
	}
	if err := json.Unmarshal([]byte(emotional), &state.EmotionalState); err != nil {
		return agent.ConsciousnessState{}, fmt.Errorf("unmarshal emotional: %w", err)
	}
	state.ObservedAt, _ = time.Parse(time.RFC3339Nano, observedStr)
	return state, nil
}

var _ agent.StateManager = (*Store)(nil)
