// Package memory provides SQLite-backed bot memory: points of interest a bot
// has seen, and a queryable log of every arbitration decision.
package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/WiegerWolf/minecraft-bots-sub005/internal/runtime"
)

// ErrNoPOI is returned when a lookup matches no remembered point of interest.
var ErrNoPOI = errors.New("no matching point of interest")

// Store wraps a SQLite connection for bot memory.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path. Pass ":memory:"
// for an ephemeral store.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pois (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bot_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		seen_tick INTEGER NOT NULL,
		UNIQUE(bot_id, kind, x, y)
	);

	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bot_id TEXT NOT NULL,
		bot_name TEXT NOT NULL,
		role TEXT NOT NULL,
		tick INTEGER NOT NULL,
		goal TEXT NOT NULL,
		utility REAL NOT NULL,
		reason TEXT NOT NULL,
		plan_json TEXT NOT NULL,
		executed TEXT NOT NULL,
		at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pois_bot_kind ON pois(bot_id, kind);
	CREATE INDEX IF NOT EXISTS idx_decisions_bot_tick ON decisions(bot_id, tick);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// POI is a remembered point of interest.
type POI struct {
	BotID    uuid.UUID `db:"bot_id" json:"botId"`
	Kind     string    `db:"kind" json:"kind"`
	X        int       `db:"x" json:"x"`
	Y        int       `db:"y" json:"y"`
	SeenTick uint64    `db:"seen_tick" json:"seenTick"`
}

// RememberPOI records a point of interest, refreshing the seen tick when the
// same spot is seen again.
func (s *Store) RememberPOI(ctx context.Context, poi POI) error {
	_, err := s.conn.ExecContext(ctx, `INSERT INTO pois (bot_id, kind, x, y, seen_tick)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(bot_id, kind, x, y) DO UPDATE SET seen_tick = excluded.seen_tick`,
		poi.BotID.String(), poi.Kind, poi.X, poi.Y, poi.SeenTick,
	)
	if err != nil {
		return fmt.Errorf("remember poi: %w", err)
	}
	return nil
}

// NearestPOI returns the remembered POI of a kind closest to (x, y),
// or ErrNoPOI when the bot has never seen one.
func (s *Store) NearestPOI(ctx context.Context, botID uuid.UUID, kind string, x, y int) (POI, error) {
	var poi POI
	err := s.conn.GetContext(ctx, &poi, `SELECT bot_id, kind, x, y, seen_tick FROM pois
		WHERE bot_id = ? AND kind = ?
		ORDER BY (x - ?) * (x - ?) + (y - ?) * (y - ?) ASC
		LIMIT 1`,
		botID.String(), kind, x, x, y, y,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return POI{}, ErrNoPOI
	}
	if err != nil {
		return POI{}, fmt.Errorf("nearest poi: %w", err)
	}
	return poi, nil
}

// ForgetPOI drops a remembered spot, typically after finding it exhausted.
func (s *Store) ForgetPOI(ctx context.Context, botID uuid.UUID, kind string, x, y int) error {
	_, err := s.conn.ExecContext(ctx,
		"DELETE FROM pois WHERE bot_id = ? AND kind = ? AND x = ? AND y = ?",
		botID.String(), kind, x, y,
	)
	if err != nil {
		return fmt.Errorf("forget poi: %w", err)
	}
	return nil
}

// RecordDecision appends one arbitration decision to the log.
func (s *Store) RecordDecision(ctx context.Context, d runtime.Decision) error {
	planJSON, err := json.Marshal(d.Plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `INSERT INTO decisions
		(bot_id, bot_name, role, tick, goal, utility, reason, plan_json, executed, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.BotID.String(), d.BotName, d.Role, d.Tick, d.Goal, d.Utility,
		d.Reason, string(planJSON), d.Executed, d.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

type decisionRow struct {
	BotID    string  `db:"bot_id"`
	BotName  string  `db:"bot_name"`
	Role     string  `db:"role"`
	Tick     uint64  `db:"tick"`
	Goal     string  `db:"goal"`
	Utility  float64 `db:"utility"`
	Reason   string  `db:"reason"`
	PlanJSON string  `db:"plan_json"`
	Executed string  `db:"executed"`
	At       string  `db:"at"`
}

// RecentDecisions returns the most recent N decisions for a bot, newest first.
func (s *Store) RecentDecisions(ctx context.Context, botID uuid.UUID, limit int) ([]runtime.Decision, error) {
	var rows []decisionRow
	err := s.conn.SelectContext(ctx, &rows, `SELECT
		bot_id, bot_name, role, tick, goal, utility, reason, plan_json, executed, at
		FROM decisions WHERE bot_id = ? ORDER BY id DESC LIMIT ?`,
		botID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent decisions: %w", err)
	}

	decisions := make([]runtime.Decision, 0, len(rows))
	for _, r := range rows {
		d, err := r.decode()
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}
	return decisions, nil
}

func (r decisionRow) decode() (runtime.Decision, error) {
	id, err := uuid.Parse(r.BotID)
	if err != nil {
		return runtime.Decision{}, fmt.Errorf("decode bot id %q: %w", r.BotID, err)
	}

	var plan []string
	if err := json.Unmarshal([]byte(r.PlanJSON), &plan); err != nil {
		return runtime.Decision{}, fmt.Errorf("decode plan: %w", err)
	}

	at, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(r.At))
	if err != nil {
		return runtime.Decision{}, fmt.Errorf("decode timestamp %q: %w", r.At, err)
	}

	return runtime.Decision{
		BotID:    id,
		BotName:  r.BotName,
		Role:     r.Role,
		Tick:     r.Tick,
		Goal:     r.Goal,
		Utility:  r.Utility,
		Reason:   r.Reason,
		Plan:     plan,
		Executed: r.Executed,
		At:       at,
	}, nil
}
