package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, err := s.Record(ctx, ActionEncrypt, "rot13", "")
	require.NoError(t, err)
	_, err = uuid.Parse(first.ID)
	require.NoError(t, err)

	_, err = s.Record(ctx, ActionSave, "", "out.json")
	require.NoError(t, err)
	_, err = s.Record(ctx, ActionClear, "", "")
	require.NoError(t, err)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ActionClear, all[0].Action)
	assert.Equal(t, "out.json", all[1].Detail)
	assert.Equal(t, first.ID, all[2].ID)
	assert.True(t, all[2].CreatedAt.Equal(base.Add(time.Second)))

	limited, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, ActionClear, limited[0].Action)
}

func TestReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.sqlite")
	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.Record(ctx, ActionLoad, "", "in.json")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionLoad, entries[0].Action)
}

func TestSchemaColumns(t *testing.T) {
	s := openTemp(t)
	cols, err := tableColumns(context.Background(), s.db, tableName)
	require.NoError(t, err)
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
		if c.Name == "id" {
			assert.True(t, c.PK)
		}
	}
	assert.Equal(t, requiredColumns, names)
}

func TestNop(t *testing.T) {
	var j Journal = Nop{}
	e, err := j.Record(context.Background(), ActionDecrypt, "rot47", "")
	require.NoError(t, err)
	assert.Equal(t, ActionDecrypt, e.Action)
	entries, err := j.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, j.Close())
}
