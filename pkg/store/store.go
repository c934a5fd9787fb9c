// Package store persists generated sessions and model predictions in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// Store is a SQLite database of sessions and predictions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. The parent directory must exist.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveSessions replaces the stored dataset with records in one transaction.
func (s *Store) SaveSessions(ctx context.Context, records []session.Record) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sessions (
			seq, session_id, timestamp, subject,
			duration_minutes, tab_switches, keystroke_rate_per_minute, mouse_movements_total,
			inactivity_periods_count, scroll_events_total, focus_classification, productivity_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err = stmt.ExecContext(ctx,
			i, r.SessionID, r.Timestamp.UTC().Format(session.TimestampLayout), r.Subject,
			r.DurationMinutes, r.TabSwitches, r.KeystrokeRate, r.MouseMovements,
			r.InactivityPeriods, r.ScrollEvents, string(r.Focus), r.ProductivityScore,
		); err != nil {
			return fmt.Errorf("failed to insert %s: %w", r.SessionID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sessions: %w", err)
	}
	return nil
}

// LoadSessions returns the stored sessions in generation order.
func (s *Store) LoadSessions(ctx context.Context) ([]session.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, timestamp, subject,
			duration_minutes, tab_switches, keystroke_rate_per_minute, mouse_movements_total,
			inactivity_periods_count, scroll_events_total, focus_classification, productivity_score
		FROM sessions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []session.Record
	for rows.Next() {
		var (
			r     session.Record
			ts    string
			focus string
		)
		if err := rows.Scan(&r.SessionID, &ts, &r.Subject,
			&r.DurationMinutes, &r.TabSwitches, &r.KeystrokeRate, &r.MouseMovements,
			&r.InactivityPeriods, &r.ScrollEvents, &focus, &r.ProductivityScore); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if r.Timestamp, err = time.Parse(session.TimestampLayout, ts); err != nil {
			return nil, fmt.Errorf("session %s: %w", r.SessionID, err)
		}
		if r.Focus, err = session.ParseCategory(focus); err != nil {
			return nil, fmt.Errorf("session %s: %w", r.SessionID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountByFocus returns the number of stored sessions per category, in
// category order.
func (s *Store) CountByFocus(ctx context.Context) (session.Distribution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT focus_classification, COUNT(*) FROM sessions GROUP BY focus_classification`)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	defer rows.Close()

	out := session.Distribution{}
	for _, c := range session.Categories {
		out[c] = 0
	}
	for rows.Next() {
		var focus string
		var n int
		if err := rows.Scan(&focus, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		out[session.FocusCategory(focus)] = n
	}
	return out, rows.Err()
}

// Prediction is one model output for one session.
type Prediction struct {
	SessionID string
	Model     string
	Predicted float64
	Actual    float64
}

// AbsError is |Predicted - Actual|.
func (p Prediction) AbsError() float64 {
	return math.Abs(p.Predicted - p.Actual)
}

// SavePredictions upserts predictions keyed by session and model.
func (s *Store) SavePredictions(ctx context.Context, preds []Prediction) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO predictions (session_id, model, predicted, actual, abs_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, model) DO UPDATE SET
			predicted = excluded.predicted,
			actual = excluded.actual,
			abs_error = excluded.abs_error,
			created_at = excluded.created_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range preds {
		if _, err = stmt.ExecContext(ctx, p.SessionID, p.Model, p.Predicted, p.Actual, p.AbsError(), now); err != nil {
			return fmt.Errorf("failed to insert prediction %s/%s: %w", p.SessionID, p.Model, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit predictions: %w", err)
	}
	return nil
}

// LoadPredictions returns the predictions of one model ordered by session.
func (s *Store) LoadPredictions(ctx context.Context, model string) ([]Prediction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.session_id, p.model, p.predicted, p.actual
		FROM predictions p LEFT JOIN sessions s ON s.session_id = p.session_id
		WHERE p.model = ?
		ORDER BY s.seq, p.session_id`, model)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var out []Prediction
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(&p.SessionID, &p.Model, &p.Predicted, &p.Actual); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
