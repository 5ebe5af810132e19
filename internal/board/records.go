package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"autoboard/internal/metadata"
	"autoboard/internal/store"
)

// CreateRecord inserts a row built from the caller-supplied column→value
// mapping and returns the new row id. Keys are checked against the board's
// current table aspect: unknown columns are rejected before any SQL is built.
func (m *Manager) CreateRecord(ctx context.Context, boardID int64, values Record) (int64, error) {
	b, ta, fa, err := m.recordContext(ctx, boardID)
	if err != nil {
		return 0, err
	}

	cols, err := allowedColumns(values, ta)
	if err != nil {
		return 0, err
	}
	if errs := validateValues(values, ta, fa, true); len(errs) > 0 {
		return 0, &ValidationError{Details: errs}
	}

	pb := m.store.Dialect.NewParamBuilder()
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		placeholders[i] = pb.Add(values[c])
	}

	sqlStr := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		b.PhysicalTableName, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	id, err := store.InsertRow(ctx, m.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		return 0, fmt.Errorf("create record in board %d: %w", boardID, store.MapError(m.store.Dialect, err))
	}
	return id, nil
}

// GetRecord fetches one row by id.
func (m *Manager) GetRecord(ctx context.Context, boardID, recordID int64) (Record, error) {
	b, err := m.getBoard(ctx, m.store.DB, boardID)
	if err != nil {
		return nil, err
	}

	pb := m.store.Dialect.NewParamBuilder()
	row, err := store.QueryRow(ctx, m.store.DB,
		fmt.Sprintf("SELECT * FROM %s WHERE id = %s", b.PhysicalTableName, pb.Add(recordID)),
		pb.Params()...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get record %d/%d: %w", boardID, recordID, err)
	}
	m.fixBooleans(ctx, boardID, []Record{row})
	return row, nil
}

// ListRecords returns all rows, most recent id first.
func (m *Manager) ListRecords(ctx context.Context, boardID int64) ([]Record, error) {
	b, err := m.getBoard(ctx, m.store.DB, boardID)
	if err != nil {
		return nil, err
	}

	rows, err := store.QueryRows(ctx, m.store.DB,
		fmt.Sprintf("SELECT * FROM %s ORDER BY id DESC", b.PhysicalTableName))
	if err != nil {
		return nil, fmt.Errorf("list records for board %d: %w", boardID, err)
	}
	if rows == nil {
		rows = []Record{}
	}
	m.fixBooleans(ctx, boardID, rows)
	return rows, nil
}

// UpdateRecord updates the supplied columns except the protected id column.
// A payload with no updatable columns is a no-op success: no SQL is issued.
func (m *Manager) UpdateRecord(ctx context.Context, boardID, recordID int64, values Record) error {
	b, ta, fa, err := m.recordContext(ctx, boardID)
	if err != nil {
		return err
	}

	updatable := make(Record, len(values))
	for k, v := range values {
		if k == "id" {
			continue
		}
		updatable[k] = v
	}
	if len(updatable) == 0 {
		return nil
	}

	cols, err := allowedColumns(updatable, ta)
	if err != nil {
		return err
	}
	if errs := validateValues(updatable, ta, fa, false); len(errs) > 0 {
		return &ValidationError{Details: errs}
	}

	pb := m.store.Dialect.NewParamBuilder()
	sets := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = %s", c, pb.Add(updatable[c])))
	}
	sets = append(sets, "updated_at = "+m.store.Dialect.NowExpr())

	sqlStr := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s",
		b.PhysicalTableName, strings.Join(sets, ", "), pb.Add(recordID))

	affected, err := store.Exec(ctx, m.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		return fmt.Errorf("update record %d/%d: %w", boardID, recordID, store.MapError(m.store.Dialect, err))
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteRecord deletes by id. Deleting a non-existent id is a success.
func (m *Manager) DeleteRecord(ctx context.Context, boardID, recordID int64) error {
	b, err := m.getBoard(ctx, m.store.DB, boardID)
	if err != nil {
		return err
	}

	pb := m.store.Dialect.NewParamBuilder()
	if _, err := store.Exec(ctx, m.store.DB,
		fmt.Sprintf("DELETE FROM %s WHERE id = %s", b.PhysicalTableName, pb.Add(recordID)),
		pb.Params()...); err != nil {
		return fmt.Errorf("delete record %d/%d: %w", boardID, recordID, err)
	}
	return nil
}

// recordContext loads the board, its table aspect and (when present) its
// form aspect, the inputs every record write needs.
func (m *Manager) recordContext(ctx context.Context, boardID int64) (*Board, *metadata.TableAspect, *metadata.FormAspect, error) {
	b, err := m.getBoard(ctx, m.store.DB, boardID)
	if err != nil {
		return nil, nil, nil, err
	}

	var ta metadata.TableAspect
	if err := m.meta.LoadAspect(ctx, m.store.DB, boardID, metadata.AspectTable, &ta); err != nil {
		return nil, nil, nil, err
	}

	var fa metadata.FormAspect
	err = m.meta.LoadAspect(ctx, m.store.DB, boardID, metadata.AspectForm, &fa)
	if err != nil {
		if !errors.Is(err, metadata.ErrAspectNotFound) {
			return nil, nil, nil, err
		}
		return b, &ta, nil, nil
	}
	return b, &ta, &fa, nil
}

// allowedColumns checks every payload key against the declared column set and
// returns the keys in a stable order.
func allowedColumns(values Record, ta *metadata.TableAspect) ([]string, error) {
	cols := make([]string, 0, len(values))
	for k := range values {
		if !ta.HasColumn(k) {
			return nil, &UnknownColumnError{Column: k}
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols, nil
}

// fixBooleans converts 0/1 integers back to bool for boolean columns when the
// dialect stores booleans as integers.
func (m *Manager) fixBooleans(ctx context.Context, boardID int64, rows []Record) {
	if !m.store.Dialect.NeedsBoolFix() || len(rows) == 0 {
		return
	}
	var ta metadata.TableAspect
	if err := m.meta.LoadAspect(ctx, m.store.DB, boardID, metadata.AspectTable, &ta); err != nil {
		return
	}
	var boolCols []string
	for _, c := range ta.Columns {
		if c.DataType == "boolean" {
			boolCols = append(boolCols, c.Name)
		}
	}
	store.NormalizeBooleans(rows, boolCols)
}
