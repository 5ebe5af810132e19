package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"autoboard/internal/config"
	"autoboard/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()

	s, err := store.New(ctx, config.DatabaseConfig{
		Driver: "sqlite",
		Path:   t.TempDir(),
		Name:   "test",
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Bootstrap(ctx))
	return s
}

func insertBoard(t *testing.T, s *store.Store) int64 {
	t.Helper()
	id, err := store.InsertRow(context.Background(), s.DB,
		"INSERT INTO boards (name) VALUES (?1) RETURNING id", "test board")
	require.NoError(t, err)
	return id
}

func TestSaveAndLoadAspect(t *testing.T) {
	s := newTestStore(t)
	ms := NewStore(s.Dialect)
	ctx := context.Background()
	boardID := insertBoard(t, s)

	saved := &TableAspect{
		ID:                boardID,
		Name:              "Diary",
		PhysicalTableName: "table_1",
		Columns: []ColumnDef{
			{Name: "col1", Label: "Title", DataType: "string"},
			{Name: "col2", Label: "Mood", DataType: "integer"},
		},
	}
	require.NoError(t, ms.SaveAspect(ctx, s.DB, boardID, AspectTable, saved))

	var loaded TableAspect
	require.NoError(t, ms.LoadAspect(ctx, s.DB, boardID, AspectTable, &loaded))
	require.Equal(t, *saved, loaded)
}

func TestSaveAspectUpsertsSingleRow(t *testing.T) {
	s := newTestStore(t)
	ms := NewStore(s.Dialect)
	ctx := context.Background()
	boardID := insertBoard(t, s)

	for i := 0; i < 3; i++ {
		la := &ListAspect{PageSize: 10 + i}
		require.NoError(t, ms.SaveAspect(ctx, s.DB, boardID, AspectList, la))
	}

	row, err := store.QueryRow(ctx, s.DB,
		"SELECT COUNT(*) AS n FROM board_metadata WHERE board_id = ?1 AND name = ?2",
		boardID, AspectList)
	require.NoError(t, err)
	require.EqualValues(t, 1, row["n"])

	var loaded ListAspect
	require.NoError(t, ms.LoadAspect(ctx, s.DB, boardID, AspectList, &loaded))
	require.Equal(t, 12, loaded.PageSize)
}

func TestGetAspectNotFound(t *testing.T) {
	s := newTestStore(t)
	ms := NewStore(s.Dialect)
	boardID := insertBoard(t, s)

	_, err := ms.GetAspect(context.Background(), s.DB, boardID, AspectView)
	require.ErrorIs(t, err, ErrAspectNotFound)
}

func TestLoadAspectCorruptPayload(t *testing.T) {
	s := newTestStore(t)
	ms := NewStore(s.Dialect)
	ctx := context.Background()
	boardID := insertBoard(t, s)

	_, err := store.Exec(ctx, s.DB,
		"INSERT INTO board_metadata (board_id, name, meta, schema_version) VALUES (?1, ?2, ?3, ?4)",
		boardID, AspectForm, "{not json", SchemaVersion)
	require.NoError(t, err)

	var fa FormAspect
	err = ms.LoadAspect(ctx, s.DB, boardID, AspectForm, &fa)

	var corrupt *CorruptMetadataError
	require.True(t, errors.As(err, &corrupt))
	require.Equal(t, boardID, corrupt.BoardID)
	require.Equal(t, AspectForm, corrupt.Aspect)
}

func TestDeleteAspects(t *testing.T) {
	s := newTestStore(t)
	ms := NewStore(s.Dialect)
	ctx := context.Background()
	boardID := insertBoard(t, s)

	require.NoError(t, ms.SaveAspect(ctx, s.DB, boardID, AspectTable, &TableAspect{ID: boardID}))
	require.NoError(t, ms.SaveAspect(ctx, s.DB, boardID, AspectList, &ListAspect{PageSize: 20}))

	require.NoError(t, ms.DeleteAspects(ctx, s.DB, boardID))

	_, err := ms.GetAspect(ctx, s.DB, boardID, AspectTable)
	require.ErrorIs(t, err, ErrAspectNotFound)
	_, err = ms.GetAspect(ctx, s.DB, boardID, AspectList)
	require.ErrorIs(t, err, ErrAspectNotFound)
}

func TestSchemaVersionStamped(t *testing.T) {
	s := newTestStore(t)
	ms := NewStore(s.Dialect)
	ctx := context.Background()
	boardID := insertBoard(t, s)

	require.NoError(t, ms.SaveAspect(ctx, s.DB, boardID, AspectTable, &TableAspect{ID: boardID}))

	row, err := store.QueryRow(ctx, s.DB,
		"SELECT schema_version FROM board_metadata WHERE board_id = ?1 AND name = ?2",
		boardID, AspectTable)
	require.NoError(t, err)
	require.Equal(t, SchemaVersion, row["schema_version"])
}
