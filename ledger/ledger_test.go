package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/findata/batch"
	"github.com/hazyhaar/findata/dbopen"
)

func testLedger(t *testing.T, opts ...Option) *Ledger {
	t.Helper()
	return New(dbopen.OpenMemory(t, dbopen.WithSchema(Schema)), opts...)
}

func TestRun_RecordAndFinish(t *testing.T) {
	// WHAT: Every outcome is stored in order and Finish computes the counters.
	// WHY: The ledger is the only durable trace of which URLs failed and why.
	ctx := context.Background()
	l := testLedger(t)

	run, err := l.BeginRun(ctx, "docs")
	require.NoError(t, err)
	_, err = uuid.Parse(run.ID)
	require.NoError(t, err)

	outcomes := []batch.Outcome[map[string]int]{
		{Index: 0, Key: "https://a.example/x.pdf", Value: map[string]int{"tables": 2}},
		{Index: 1, Key: "https://b.example/y.pdf", Err: fmt.Errorf("%w: http 500", batch.ErrStatus)},
		{Index: 2, Key: "https://c.example/z.pdf", Value: map[string]int{"tables": 0}},
	}
	for _, o := range outcomes {
		RecordOutcome(ctx, run, o)
	}
	run.Finish(ctx)

	runs, err := l.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, run.ID, runs[0].ID)
	require.Equal(t, "docs", runs[0].Flow)
	require.Equal(t, 3, runs[0].Items)
	require.Equal(t, 1, runs[0].Failures)
	require.NotNil(t, runs[0].FinishedAt)

	items, err := l.Items(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.True(t, items[0].OK)
	require.JSONEq(t, `{"tables":2}`, string(items[0].Detail))
	require.False(t, items[1].OK)
	require.Equal(t, "status", items[1].ErrorKind)
	require.Contains(t, items[1].Error, "http 500")
	require.Nil(t, items[1].Detail)
}

func TestRuns_NewestFirst(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := testLedger(t, WithClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	}))

	first, err := l.BeginRun(ctx, "pages")
	require.NoError(t, err)
	second, err := l.BeginRun(ctx, "docs")
	require.NoError(t, err)

	runs, err := l.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, second.ID, runs[0].ID)
	require.Equal(t, first.ID, runs[1].ID)
	require.Nil(t, runs[1].FinishedAt)
}

func TestNilRun_IsNoop(t *testing.T) {
	var run *Run
	require.NotPanics(t, func() {
		run.Record(context.Background(), 0, "k", errors.New("x"), nil)
		RecordOutcome(context.Background(), run, batch.Outcome[int]{Key: "k"})
		run.Finish(context.Background())
	})
}

func TestRecord_FailureIsLoggedNotPropagated(t *testing.T) {
	// WHAT: A broken database turns Record into a logged error.
	// WHY: A failing ledger must never stop a batch.
	var buf bytes.Buffer
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	l := New(db, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	run, err := l.BeginRun(context.Background(), "docs")
	require.NoError(t, err)

	db.Close()
	run.Record(context.Background(), 0, "https://a.example", nil, nil)
	run.Finish(context.Background())
	require.Contains(t, buf.String(), "ledger record failed")
	require.Contains(t, buf.String(), "ledger finish failed")
}

func TestItems_InvalidID(t *testing.T) {
	_, err := testLedger(t).Items(context.Background(), "'; DROP TABLE runs; --")
	require.Error(t, err)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "ledger.db")
	l, err := Open(path, WithIDGenerator(func() string { return "0190d2a4-0000-7000-8000-000000000001" }))
	require.NoError(t, err)
	defer l.Close()

	run, err := l.BeginRun(context.Background(), "indicators")
	require.NoError(t, err)
	require.Equal(t, "0190d2a4-0000-7000-8000-000000000001", run.ID)
}
