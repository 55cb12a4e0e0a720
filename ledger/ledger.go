// CLAUDE:SUMMARY SQLite run ledger: one row per batch run and one per item outcome; recording never fails the batch.
// CLAUDE:DEPENDS dbopen, batch, idgen
// CLAUDE:EXPORTS Ledger, Run, Open, New, RecordOutcome
// Package ledger keeps a history of batch runs.
//
// Recording is best effort: write failures are logged via slog and never
// propagate, so a broken ledger never stops a batch. A nil *Run is valid
// and records nothing, which is how callers run without a ledger.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/findata/batch"
	"github.com/hazyhaar/findata/dbopen"
	"github.com/hazyhaar/findata/idgen"
)

// Ledger writes runs and item outcomes.
type Ledger struct {
	db    *sql.DB
	newID idgen.Generator
	now   func() time.Time
	log   *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDGenerator sets the run id generator. Default: UUIDv7.
func WithIDGenerator(gen idgen.Generator) Option { return func(l *Ledger) { l.newID = gen } }

// WithClock sets the time source.
func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

// WithLogger sets the logger used for recording failures.
func WithLogger(log *slog.Logger) Option { return func(l *Ledger) { l.log = log } }

// Open opens (creating if needed) the ledger database at path.
func Open(path string, opts ...Option) (*Ledger, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	return New(db, opts...), nil
}

// New wraps a database that already has Schema applied.
func New(db *sql.DB, opts ...Option) *Ledger {
	l := &Ledger{
		db:    db,
		newID: idgen.Default,
		now:   time.Now,
		log:   slog.Default(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Close closes the database.
func (l *Ledger) Close() error { return l.db.Close() }

// Run is one batch execution being recorded.
type Run struct {
	ID        string
	Flow      string
	StartedAt time.Time
	l         *Ledger
}

// BeginRun starts recording a run of flow ("docs", "pages", ...).
func (l *Ledger) BeginRun(ctx context.Context, flow string) (*Run, error) {
	r := &Run{ID: l.newID(), Flow: flow, StartedAt: l.now(), l: l}
	if _, err := dbopen.Exec(ctx, l.db,
		`INSERT INTO runs (run_id, flow, started_at) VALUES (?,?,?)`,
		r.ID, r.Flow, r.StartedAt.UnixMilli()); err != nil {
		return nil, fmt.Errorf("ledger: begin run: %w", err)
	}
	return r, nil
}

// Record stores the outcome of item index. detail is stored as JSON.
func (r *Run) Record(ctx context.Context, index int, key string, err error, detail any) {
	if r == nil {
		return
	}
	var detailJSON string
	if detail != nil {
		if b, merr := json.Marshal(detail); merr == nil && string(b) != "null" {
			detailJSON = string(b)
		}
	}
	var errText string
	if err != nil {
		errText = err.Error()
	}
	_, xerr := dbopen.Exec(ctx, r.l.db, `
		INSERT OR REPLACE INTO run_items (
			run_id, idx, item_key, ok, error_kind, error, detail, recorded_at
		) VALUES (?,?,?,?,?,?,?,?)`,
		r.ID, index, key, err == nil, batch.Kind(err), errText, detailJSON, r.l.now().UnixMilli())
	if xerr != nil {
		r.l.log.Error("ledger record failed", "error", xerr, "run_id", r.ID, "key", key)
	}
}

// RecordOutcome stores a batch outcome.
func RecordOutcome[T any](ctx context.Context, r *Run, o batch.Outcome[T]) {
	var detail any
	if !o.Failed() {
		detail = o.Value
	}
	r.Record(ctx, o.Index, o.Key, o.Err, detail)
}

// Finish stamps the end time and the item and failure counts.
// Like Record, errors are logged and swallowed.
func (r *Run) Finish(ctx context.Context) {
	if r == nil {
		return
	}
	err := dbopen.RunTx(ctx, r.l.db, func(tx *sql.Tx) error {
		var items, failures int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*), COALESCE(SUM(NOT ok), 0) FROM run_items WHERE run_id = ?`, r.ID,
		).Scan(&items, &failures); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE runs SET finished_at = ?, items = ?, failures = ? WHERE run_id = ?`,
			r.l.now().UnixMilli(), items, failures, r.ID)
		return err
	})
	if err != nil {
		r.l.log.Error("ledger finish failed", "error", err, "run_id", r.ID)
	}
}

// RunSummary is a row of the runs table.
type RunSummary struct {
	ID         string     `json:"run_id"`
	Flow       string     `json:"flow"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Items      int        `json:"items"`
	Failures   int        `json:"failures"`
}

// Runs lists the most recent runs, newest first. limit <= 0 means 50.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT run_id, flow, started_at, finished_at, items, failures
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s        RunSummary
			started  int64
			finished sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.Flow, &started, &finished, &s.Items, &s.Failures); err != nil {
			return nil, fmt.Errorf("ledger: scan run: %w", err)
		}
		s.StartedAt = time.UnixMilli(started)
		if finished.Valid {
			t := time.UnixMilli(finished.Int64)
			s.FinishedAt = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Item is a row of the run_items table.
type Item struct {
	Index     int             `json:"index"`
	Key       string          `json:"key"`
	OK        bool            `json:"ok"`
	ErrorKind string          `json:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty"`
	Detail    json.RawMessage `json:"detail,omitempty"`
}

// Items lists the recorded outcomes of one run in input order.
func (l *Ledger) Items(ctx context.Context, runID string) ([]Item, error) {
	if _, err := idgen.Parse(runID); err != nil {
		return nil, fmt.Errorf("ledger: invalid run id %q: %w", runID, err)
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT idx, item_key, ok, error_kind, error, detail
		FROM run_items WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("ledger: items: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var (
			it     Item
			detail string
		)
		if err := rows.Scan(&it.Index, &it.Key, &it.OK, &it.ErrorKind, &it.Error, &detail); err != nil {
			return nil, fmt.Errorf("ledger: scan item: %w", err)
		}
		if detail != "" {
			it.Detail = json.RawMessage(detail)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
