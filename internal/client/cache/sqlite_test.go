package cache

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sittersafe/carelog/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	s := NewSQLiteStore(setupDB(t), 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", []byte(`{"a":1}`)))

	v, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"a":1}`), v)
}

func TestGet_NotExists_ReturnsNilNil(t *testing.T) {
	s := NewSQLiteStore(setupDB(t), 0)

	v, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	s := NewSQLiteStore(setupDB(t), 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("old")))
	require.NoError(t, s.Set(ctx, "k", []byte("new")))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestSet_QuotaExceeded_PriorSnapshotIntact(t *testing.T) {
	s := NewSQLiteStore(setupDB(t), 16)
	ctx := context.Background()

	prior := []byte("0123456789")
	require.NoError(t, s.Set(ctx, "k", prior))

	err := s.Set(ctx, "k", []byte("01234567890123456789"))
	require.ErrorIs(t, err, common.ErrQuotaExceeded)

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, prior, v, "rejected write must leave the stored snapshot byte-for-byte unchanged")
}

func TestSet_QuotaCountsOtherKeys(t *testing.T) {
	s := NewSQLiteStore(setupDB(t), 16)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("0123456789")))

	err := s.Set(ctx, "b", []byte("0123456789"))
	require.ErrorIs(t, err, common.ErrQuotaExceeded)

	v, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSet_ReplaceDoesNotCountReplacedValue(t *testing.T) {
	s := NewSQLiteStore(setupDB(t), 16)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("0123456789")))
	// Same size fits again: the value being replaced is excluded from usage.
	require.NoError(t, s.Set(ctx, "k", []byte("9876543210")))
}

func TestDelete_RemovesKey_AndIsIdempotent(t *testing.T) {
	s := NewSQLiteStore(setupDB(t), 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, s.Delete(ctx, "k"))
}

func TestJSONHelpers_RoundTrip(t *testing.T) {
	s := NewSQLiteStore(setupDB(t), 0)
	ctx := context.Background()

	type doc struct {
		Name string `json:"name"`
	}

	var missing doc
	ok, err := GetJSON(ctx, s, "doc", &missing)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetJSON(ctx, s, "doc", doc{Name: "Mia"}))

	var got doc
	ok, err = GetJSON(ctx, s, "doc", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Mia", got.Name)
}
