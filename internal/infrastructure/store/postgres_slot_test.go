package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgresSlot(t *testing.T) (*PostgresSlot, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSlot(db), mock
}

func TestPostgresSlot_Get(t *testing.T) {
	slot, mock := newMockPostgresSlot(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM cart_slots WHERE key = $1")).
		WithArgs("roshan-grams-cart:s1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(`{"version":1,"items":[]}`))

	data, ok, err := slot.Get(ctx, "roshan-grams-cart:s1")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"version":1,"items":[]}`, string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSlot_Get_NotFound(t *testing.T) {
	slot, mock := newMockPostgresSlot(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM cart_slots")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	data, ok, err := slot.Get(ctx, "missing")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSlot_Get_QueryError(t *testing.T) {
	slot, mock := newMockPostgresSlot(t)
	ctx := context.Background()

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM cart_slots")).
		WithArgs("k").
		WillReturnError(dbErr)

	_, ok, err := slot.Get(ctx, "k")

	assert.ErrorIs(t, err, dbErr)
	assert.False(t, ok)
}

func TestPostgresSlot_Put(t *testing.T) {
	slot, mock := newMockPostgresSlot(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cart_slots (key, payload, updated_at)")).
		WithArgs("k", `{"version":1}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := slot.Put(ctx, "k", []byte(`{"version":1}`))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSlot_Delete(t *testing.T) {
	slot, mock := newMockPostgresSlot(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_slots WHERE key = $1")).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, slot.Delete(ctx, "k"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSlot_EnsureSchema(t *testing.T) {
	slot, mock := newMockPostgresSlot(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS cart_slots")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, slot.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSlot_EmptyKey(t *testing.T) {
	slot, mock := newMockPostgresSlot(t)

	assert.ErrorIs(t, slot.Put(context.Background(), "", []byte("x")), ErrEmptyKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}
