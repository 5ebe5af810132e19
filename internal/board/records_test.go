package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"autoboard/internal/metadata"
)

func newDiaryBoard(t *testing.T) (*Manager, int64) {
	t.Helper()
	mgr, _ := newTestManager(t)

	b, err := mgr.CreateBoard(context.Background(), TableInput{
		Name: "Diary",
		Fields: []FieldInput{
			{Label: "Title", DataType: "string"},
			{Label: "Mood", DataType: "integer"},
			{Label: "Published", DataType: "boolean"},
		},
	})
	require.NoError(t, err)
	return mgr, b.ID
}

func TestCreateAndGetRecord(t *testing.T) {
	mgr, boardID := newDiaryBoard(t)
	ctx := context.Background()

	id, err := mgr.CreateRecord(ctx, boardID, Record{"col1": "Hello", "col2": 5})
	require.NoError(t, err)
	require.Positive(t, id)

	rec, err := mgr.GetRecord(ctx, boardID, id)
	require.NoError(t, err)
	require.Equal(t, "Hello", rec["col1"])
	require.EqualValues(t, 5, rec["col2"])
	require.NotNil(t, rec["created_at"])
}

func TestCreateRecordUnknownColumn(t *testing.T) {
	mgr, boardID := newDiaryBoard(t)

	_, err := mgr.CreateRecord(context.Background(), boardID, Record{"col1": "x", "col99": "y"})

	var unknown *UnknownColumnError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "col99", unknown.Column)
}

func TestCreateRecordBoardNotFound(t *testing.T) {
	mgr, _ := newTestManager(t)

	_, err := mgr.CreateRecord(context.Background(), 999, Record{"col1": "x"})
	require.ErrorIs(t, err, ErrBoardNotFound)
}

func TestListRecordsNewestFirst(t *testing.T) {
	mgr, boardID := newDiaryBoard(t)
	ctx := context.Background()

	first, err := mgr.CreateRecord(ctx, boardID, Record{"col1": "one"})
	require.NoError(t, err)
	second, err := mgr.CreateRecord(ctx, boardID, Record{"col1": "two"})
	require.NoError(t, err)

	rows, err := mgr.ListRecords(ctx, boardID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.EqualValues(t, second, rows[0]["id"].(int64))
	require.EqualValues(t, first, rows[1]["id"].(int64))
}

func TestListRecordsEmptyBoard(t *testing.T) {
	mgr, boardID := newDiaryBoard(t)

	rows, err := mgr.ListRecords(context.Background(), boardID)
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestUpdateRecord(t *testing.T) {
	mgr, boardID := newDiaryBoard(t)
	ctx := context.Background()

	id, err := mgr.CreateRecord(ctx, boardID, Record{"col1": "draft", "col2": 1})
	require.NoError(t, err)

	require.NoError(t, mgr.UpdateRecord(ctx, boardID, id, Record{"col1": "final"}))

	rec, err := mgr.GetRecord(ctx, boardID, id)
	require.NoError(t, err)
	require.Equal(t, "final", rec["col1"])
	require.EqualValues(t, 1, rec["col2"])
}

func TestUpdateRecordIgnoresID(t *testing.T) {
	mgr, boardID := newDiaryBoard(t)
	ctx := context.Background()

	id, err := mgr.CreateRecord(ctx, boardID, Record{"col1": "keep"})
	require.NoError(t, err)

	// A payload containing only the protected id column is a no-op success,
	// even when the target row does not exist.
	require.NoError(t, mgr.UpdateRecord(ctx, boardID, id, Record{"id": 7}))
	require.NoError(t, mgr.UpdateRecord(ctx, boardID, 999, Record{"id": 7}))

	rec, err := mgr.GetRecord(ctx, boardID, id)
	require.NoError(t, err)
	require.Equal(t, "keep", rec["col1"])
}

func TestUpdateRecordNotFound(t *testing.T) {
	mgr, boardID := newDiaryBoard(t)

	err := mgr.UpdateRecord(context.Background(), boardID, 999, Record{"col1": "x"})
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteRecordIdempotent(t *testing.T) {
	mgr, boardID := newDiaryBoard(t)
	ctx := context.Background()

	id, err := mgr.CreateRecord(ctx, boardID, Record{"col1": "bye"})
	require.NoError(t, err)

	require.NoError(t, mgr.DeleteRecord(ctx, boardID, id))
	_, err = mgr.GetRecord(ctx, boardID, id)
	require.ErrorIs(t, err, ErrRecordNotFound)

	// Deleting again succeeds.
	require.NoError(t, mgr.DeleteRecord(ctx, boardID, id))
}

func TestBooleanRoundTrip(t *testing.T) {
	mgr, boardID := newDiaryBoard(t)
	ctx := context.Background()

	id, err := mgr.CreateRecord(ctx, boardID, Record{"col1": "flagged", "col3": true})
	require.NoError(t, err)

	rec, err := mgr.GetRecord(ctx, boardID, id)
	require.NoError(t, err)
	require.Equal(t, true, rec["col3"])
}

func TestRecordValidation(t *testing.T) {
	mgr, boardID := newDiaryBoard(t)
	ctx := context.Background()

	min := float64(1)
	max := float64(10)
	require.NoError(t, mgr.SaveFormConfig(ctx, boardID, metadata.FormAspect{
		Fields: []metadata.FormField{
			{Name: "col1", ElementType: "input-text", Required: true},
			{Name: "col2", ElementType: "input-integer", MinValue: &min, MaxValue: &max},
		},
	}))

	// Missing required field on create.
	_, err := mgr.CreateRecord(ctx, boardID, Record{"col2": 5})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "col1", ve.Details[0].Field)
	require.Equal(t, "required", ve.Details[0].Rule)

	// Out-of-range value.
	_, err = mgr.CreateRecord(ctx, boardID, Record{"col1": "ok", "col2": 42})
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "col2", ve.Details[0].Field)
	require.Equal(t, "max", ve.Details[0].Rule)

	// Valid payload passes.
	id, err := mgr.CreateRecord(ctx, boardID, Record{"col1": "ok", "col2": 5})
	require.NoError(t, err)

	// Update without the required field is fine; required binds to create.
	require.NoError(t, mgr.UpdateRecord(ctx, boardID, id, Record{"col2": 9}))
}
