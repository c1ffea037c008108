package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSQLiteBucket(t *testing.T) *SQLiteBucket {
	t.Helper()
	dbFile := "test_buckets.db"
	os.Remove(dbFile)
	t.Cleanup(func() { os.Remove(dbFile) })

	s, err := NewSQLiteBucket(dbFile)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteBucket_ReadMissingKey(t *testing.T) {
	s := newTestSQLiteBucket(t)

	_, err := s.Read(context.Background(), "finance.loans")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteBucket_WriteAndRead(t *testing.T) {
	s := newTestSQLiteBucket(t)
	ctx := context.Background()

	payload := []byte(`[{"id":"a","name":"Gold"}]`)
	require.NoError(t, s.Write(ctx, "finance.assets", payload))

	got, err := s.Read(ctx, "finance.assets")
	require.NoError(t, err)
	require.Equal(t, payload, got)

	// Other keys stay independent.
	_, err = s.Read(ctx, "finance.loans")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteBucket_OverwriteReplacesValue(t *testing.T) {
	s := newTestSQLiteBucket(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "finance.loans", []byte(`[]`)))
	require.NoError(t, s.Write(ctx, "finance.loans", []byte(`[{"id":"x"}]`)))

	got, err := s.Read(ctx, "finance.loans")
	require.NoError(t, err)
	require.Equal(t, []byte(`[{"id":"x"}]`), got)
}

func TestSQLiteBucket_SurvivesReopen(t *testing.T) {
	dbFile := "test_buckets_reopen.db"
	os.Remove(dbFile)
	defer os.Remove(dbFile)
	ctx := context.Background()

	s, err := NewSQLiteBucket(dbFile)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, "finance.liabilities", []byte(`[{"id":"l1"}]`)))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteBucket(dbFile)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Read(ctx, "finance.liabilities")
	require.NoError(t, err)
	require.Equal(t, []byte(`[{"id":"l1"}]`), got)
}

func TestMemoryBucket_Isolation(t *testing.T) {
	m := NewMemoryBucket()
	ctx := context.Background()

	_, err := m.Read(ctx, "finance.loans")
	require.ErrorIs(t, err, ErrNotFound)

	payload := []byte(`[1,2,3]`)
	require.NoError(t, m.Write(ctx, "finance.loans", payload))

	got, err := m.Read(ctx, "finance.loans")
	require.NoError(t, err)
	require.Equal(t, payload, got)

	// Mutating the returned slice must not leak into stored data.
	got[0] = 'X'
	again, err := m.Read(ctx, "finance.loans")
	require.NoError(t, err)
	require.Equal(t, payload, again)
}
