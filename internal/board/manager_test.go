package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"autoboard/internal/config"
	"autoboard/internal/metadata"
	"autoboard/internal/schema"
	"autoboard/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
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

	meta := metadata.NewStore(s.Dialect)
	mat := schema.NewMaterializer(s.Dialect)
	return NewManager(s, meta, mat), s
}

func diaryInput() TableInput {
	return TableInput{
		Name: "Diary",
		Note: "my daily notes",
		Fields: []FieldInput{
			{Label: "Title", DataType: "string"},
			{Label: "Mood", DataType: "integer"},
		},
	}
}

func TestCreateBoard(t *testing.T) {
	mgr, s := newTestManager(t)
	ctx := context.Background()

	b, err := mgr.CreateBoard(ctx, diaryInput())
	require.NoError(t, err)

	require.Equal(t, "Diary", b.Name)
	require.Equal(t, StatusTableDefined, b.Status)
	require.Equal(t, schema.TableName(b.ID), b.PhysicalTableName)

	// The table aspect is stored with generated column names.
	ta, err := mgr.TableAspect(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, ta.Columns, 2)
	require.Equal(t, "col1", ta.Columns[0].Name)
	require.Equal(t, "Title", ta.Columns[0].Label)
	require.Equal(t, "col2", ta.Columns[1].Name)
	require.Equal(t, "integer", ta.Columns[1].DataType)

	// The physical table exists with id + fields + timestamps.
	mat := schema.NewMaterializer(s.Dialect)
	cols, err := mat.PhysicalColumns(ctx, s.DB, b.PhysicalTableName)
	require.NoError(t, err)
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	require.Equal(t, []string{"id", "col1", "col2", "created_at", "updated_at"}, names)
}

func TestGetBoardNotFound(t *testing.T) {
	mgr, _ := newTestManager(t)

	_, err := mgr.GetBoard(context.Background(), 999)
	require.ErrorIs(t, err, ErrBoardNotFound)
}

func TestListBoardsNewestFirst(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	first, err := mgr.CreateBoard(ctx, TableInput{Name: "First", Fields: []FieldInput{{Label: "A", DataType: "string"}}})
	require.NoError(t, err)
	second, err := mgr.CreateBoard(ctx, TableInput{Name: "Second", Fields: []FieldInput{{Label: "B", DataType: "string"}}})
	require.NoError(t, err)

	boards, err := mgr.ListBoards(ctx)
	require.NoError(t, err)
	require.Len(t, boards, 2)
	require.Equal(t, second.ID, boards[0].ID)
	require.Equal(t, first.ID, boards[1].ID)
}

func TestWizardStatusProgression(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	b, err := mgr.CreateBoard(ctx, diaryInput())
	require.NoError(t, err)

	require.NoError(t, mgr.SaveListConfig(ctx, b.ID, metadata.ListAspect{Columns: []string{"col1"}}))
	b, err = mgr.GetBoard(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, StatusListConfigured, b.Status)

	require.NoError(t, mgr.SaveFormConfig(ctx, b.ID, metadata.FormAspect{
		Fields: []metadata.FormField{{Name: "col1", ElementType: "input-text", Required: true}},
	}))
	require.NoError(t, mgr.SaveViewConfig(ctx, b.ID, metadata.ViewAspect{
		Fields: []metadata.ViewField{{Name: "col1", DisplayType: "text"}},
	}))
	require.NoError(t, mgr.Finish(ctx, b.ID))

	b, err = mgr.GetBoard(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, StatusFinished, b.Status)

	// Re-saving an earlier step never regresses the status.
	require.NoError(t, mgr.SaveListConfig(ctx, b.ID, metadata.ListAspect{Columns: []string{"col1"}}))
	b, err = mgr.GetBoard(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, StatusFinished, b.Status)
}

func TestSaveListConfigDefaultPageSize(t *testing.T) {
	mgr, s := newTestManager(t)
	ctx := context.Background()

	b, err := mgr.CreateBoard(ctx, diaryInput())
	require.NoError(t, err)
	require.NoError(t, mgr.SaveListConfig(ctx, b.ID, metadata.ListAspect{}))

	meta := metadata.NewStore(s.Dialect)
	var la metadata.ListAspect
	require.NoError(t, meta.LoadAspect(ctx, s.DB, b.ID, metadata.AspectList, &la))
	require.Equal(t, 20, la.PageSize)
}

func TestSaveFormConfigRejectsBrokenCondition(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	b, err := mgr.CreateBoard(ctx, diaryInput())
	require.NoError(t, err)

	err = mgr.SaveFormConfig(ctx, b.ID, metadata.FormAspect{
		Fields: []metadata.FormField{{Name: "col2", Condition: "value >"}},
	})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "col2", ve.Details[0].Field)
	require.Equal(t, "condition", ve.Details[0].Rule)
}

func TestUpdateTableRecreatesAndReconciles(t *testing.T) {
	mgr, s := newTestManager(t)
	ctx := context.Background()

	b, err := mgr.CreateBoard(ctx, diaryInput())
	require.NoError(t, err)

	require.NoError(t, mgr.SaveListConfig(ctx, b.ID, metadata.ListAspect{
		Columns:       []string{"col1", "col2"},
		SearchColumns: []string{"col2"},
		DefaultSort:   &metadata.SortSpec{Column: "col2", Order: "desc"},
	}))
	require.NoError(t, mgr.SaveFormConfig(ctx, b.ID, metadata.FormAspect{
		Fields: []metadata.FormField{
			{Name: "col1", ElementType: "input-text"},
			{Name: "col2", ElementType: "input-integer"},
		},
	}))
	require.NoError(t, mgr.SaveViewConfig(ctx, b.ID, metadata.ViewAspect{
		Fields: []metadata.ViewField{
			{Name: "col1", DisplayType: "text"},
			{Name: "col2", DisplayType: "stars"},
		},
	}))

	// Shrink to one field: col2 disappears everywhere.
	_, err = mgr.UpdateTable(ctx, b.ID, TableInput{
		Name:   "Diary",
		Fields: []FieldInput{{Label: "Title", DataType: "string"}},
	})
	require.NoError(t, err)

	meta := metadata.NewStore(s.Dialect)
	var la metadata.ListAspect
	require.NoError(t, meta.LoadAspect(ctx, s.DB, b.ID, metadata.AspectList, &la))
	require.Equal(t, []string{"col1"}, la.Columns)
	require.Empty(t, la.SearchColumns)
	require.Nil(t, la.DefaultSort)

	var fa metadata.FormAspect
	require.NoError(t, meta.LoadAspect(ctx, s.DB, b.ID, metadata.AspectForm, &fa))
	require.Len(t, fa.Fields, 1)
	require.Equal(t, "col1", fa.Fields[0].Name)

	var va metadata.ViewAspect
	require.NoError(t, meta.LoadAspect(ctx, s.DB, b.ID, metadata.AspectView, &va))
	require.Len(t, va.Fields, 1)
	require.Equal(t, "col1", va.Fields[0].Name)
}

func TestUpdateTableBlockedWithRecords(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	b, err := mgr.CreateBoard(ctx, diaryInput())
	require.NoError(t, err)

	_, err = mgr.CreateRecord(ctx, b.ID, Record{"col1": "Hello", "col2": 5})
	require.NoError(t, err)

	_, err = mgr.UpdateTable(ctx, b.ID, TableInput{
		Name:   "Diary",
		Fields: []FieldInput{{Label: "Title", DataType: "string"}},
	})

	var blocked *schema.StructuralChangeBlockedError
	require.True(t, errors.As(err, &blocked))
	require.EqualValues(t, 1, blocked.RowCount)

	// The edit rolled back: the aspect still has both columns.
	ta, err := mgr.TableAspect(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, ta.Columns, 2)
}

func TestDeleteBoard(t *testing.T) {
	mgr, s := newTestManager(t)
	ctx := context.Background()

	b, err := mgr.CreateBoard(ctx, diaryInput())
	require.NoError(t, err)
	table := b.PhysicalTableName

	require.NoError(t, mgr.DeleteBoard(ctx, b.ID))

	_, err = mgr.GetBoard(ctx, b.ID)
	require.ErrorIs(t, err, ErrBoardNotFound)

	mat := schema.NewMaterializer(s.Dialect)
	exists, err := mat.TableExists(ctx, s.DB, table)
	require.NoError(t, err)
	require.False(t, exists)

	meta := metadata.NewStore(s.Dialect)
	_, err = meta.GetAspect(ctx, s.DB, b.ID, metadata.AspectTable)
	require.ErrorIs(t, err, metadata.ErrAspectNotFound)
}
