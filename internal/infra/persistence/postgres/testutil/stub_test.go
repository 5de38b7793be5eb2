package testutil

import (
	"context"
	"database/sql/driver"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubUpsertAndFilteredSelect(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()
	require.NoError(t, conn.Ping(ctx))

	upsert := "INSERT INTO state(bucket, payload) VALUES($1, $2) ON CONFLICT(bucket) DO UPDATE SET payload = EXCLUDED.payload"
	for _, payload := range []string{"first", "second"} {
		_, err := conn.ExecContext(ctx, upsert, []driver.NamedValue{{Value: "animals"}, {Value: payload}})
		require.NoError(t, err)
	}
	_, err := conn.ExecContext(ctx, upsert, []driver.NamedValue{{Value: "other"}, {Value: "x"}})
	require.NoError(t, err)
	assert.Len(t, conn.Rows("state"), 2)

	rows, err := conn.QueryContext(ctx, "SELECT payload FROM state WHERE bucket = $1", []driver.NamedValue{{Value: "animals"}})
	require.NoError(t, err)
	dest := make([]driver.Value, 1)
	require.NoError(t, rows.Next(dest))
	assert.Equal(t, "second", dest[0])
	assert.ErrorIs(t, rows.Next(dest), io.EOF)
	assert.Len(t, conn.Statements(), 3)
}

func TestStubFailureSwitches(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()
	conn.FailPing = true
	assert.Error(t, conn.Ping(ctx))
	conn.FailBegin = true
	_, err := conn.Begin()
	assert.Error(t, err)
	conn.FailQuery = true
	_, err = conn.QueryContext(ctx, "SELECT payload FROM state", nil)
	assert.Error(t, err)
}

func TestParseSelectRejectsGarbage(t *testing.T) {
	_, _, _, err := parseSelect("UPDATE state SET x = 1")
	assert.Error(t, err)
	_, _, _, err = parseSelect("SELECT payload")
	assert.Error(t, err)
	_, err = (&StubConn{Tables: map[string][]map[string]any{}}).ExecContext(context.Background(), "INSERT INTO broken", nil)
	assert.Error(t, err)
}
