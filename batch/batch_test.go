package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_OneOutcomePerKeyInOrder(t *testing.T) {
	// WHAT: N keys in, N outcomes out, same order, failures tagged.
	// WHY: The batch drivers rely on this to report every input URL.
	keys := []string{"a", "b", "c", "d"}
	fn := func(_ context.Context, key string) (string, error) {
		if key == "b" {
			return "", fmt.Errorf("%w: boom", ErrTransport)
		}
		return "ok:" + key, nil
	}

	got := Collect(Run(context.Background(), keys, fn))
	require.Len(t, got, len(keys))
	for i, o := range got {
		require.Equal(t, i, o.Index)
		require.Equal(t, keys[i], o.Key)
	}
	require.True(t, got[1].Failed())
	require.ErrorIs(t, got[1].Err, ErrTransport)
	require.Equal(t, "ok:c", got[2].Value)
	require.Equal(t, 1, Failures(got))
}

func TestRun_PanicIsolated(t *testing.T) {
	// WHAT: A panic inside one item becomes a parse failure for that item only.
	// WHY: Third-party parsers may panic on malformed input.
	fn := func(_ context.Context, key string) (int, error) {
		if key == "bad" {
			panic("corrupt xref")
		}
		return len(key), nil
	}

	got := Collect(Run(context.Background(), []string{"bad", "good"}, fn))
	require.Len(t, got, 2)
	require.ErrorIs(t, got[0].Err, ErrParse)
	require.Zero(t, got[0].Value)
	require.NoError(t, got[1].Err)
	require.Equal(t, 4, got[1].Value)
}

func TestRun_CanceledContextStillYieldsAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	fn := func(_ context.Context, key string) (string, error) {
		calls++
		cancel()
		return key, nil
	}

	got := Collect(Run(ctx, []string{"x", "y", "z"}, fn))
	require.Len(t, got, 3)
	require.Equal(t, 1, calls)
	require.NoError(t, got[0].Err)
	require.ErrorIs(t, got[1].Err, context.Canceled)
	require.ErrorIs(t, got[2].Err, context.Canceled)
}

func TestRun_ConsumerStop(t *testing.T) {
	calls := 0
	fn := func(_ context.Context, key string) (string, error) {
		calls++
		return key, nil
	}
	for o := range Run(context.Background(), []string{"1", "2", "3"}, fn) {
		if o.Key == "2" {
			break
		}
	}
	require.Equal(t, 2, calls)
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("get: %w", ErrTransport), "transport"},
		{fmt.Errorf("%w: 404", ErrStatus), "status"},
		{fmt.Errorf("%w: bad xref", ErrParse), "parse"},
		{fmt.Errorf("%w: disk full", ErrIO), "io"},
		{fmt.Errorf("%w: %w", ErrTransport, context.DeadlineExceeded), "transport"},
		{context.Canceled, "canceled"},
		{errors.New("mystery"), "other"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Kind(tt.err), "Kind(%v)", tt.err)
	}
}
