package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"autoboard/internal/metadata"
	"autoboard/internal/schema"
	"autoboard/internal/store"
)

// Manager owns the wizard state machine and board CRUD. Every mutating
// operation runs inside a single transaction; DDL failures roll back the
// board row and aspect writes together.
type Manager struct {
	store *store.Store
	meta  *metadata.Store
	mat   *schema.Materializer
}

func NewManager(s *store.Store, meta *metadata.Store, mat *schema.Materializer) *Manager {
	return &Manager{store: s, meta: meta, mat: mat}
}

// CreateBoard handles the first submission of wizard step 1: board row,
// table aspect and physical table are created atomically.
func (m *Manager) CreateBoard(ctx context.Context, in TableInput) (*Board, error) {
	tx, err := m.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	pb := m.store.Dialect.NewParamBuilder()
	boardID, err := store.InsertRow(ctx, tx, fmt.Sprintf(
		"INSERT INTO boards (name, note, is_file_attach, status) VALUES (%s, %s, %s, %s) RETURNING id",
		pb.Add(in.Name), pb.Add(in.Note), pb.Add(in.IsFileAttach), pb.Add(StatusTableDefined)),
		pb.Params()...)
	if err != nil {
		return nil, fmt.Errorf("insert board: %w", store.MapError(m.store.Dialect, err))
	}

	tableName := schema.TableName(boardID)
	pb = m.store.Dialect.NewParamBuilder()
	if _, err := store.Exec(ctx, tx, fmt.Sprintf(
		"UPDATE boards SET physical_table_name = %s WHERE id = %s",
		pb.Add(tableName), pb.Add(boardID)), pb.Params()...); err != nil {
		return nil, fmt.Errorf("assign physical table name: %w", err)
	}

	aspect := buildTableAspect(boardID, tableName, in)
	if err := m.meta.SaveAspect(ctx, tx, boardID, metadata.AspectTable, aspect); err != nil {
		return nil, err
	}

	if err := m.mat.CreatePhysicalTable(ctx, tx, tableName, aspect.Columns); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	log.Printf("board created: %s (id=%d, table=%s)", in.Name, boardID, tableName)
	return m.GetBoard(ctx, boardID)
}

// UpdateTable handles re-entering wizard step 1 for an existing board. The
// physical table is recreated, which the zero-row guard in the materializer
// refuses when records exist. Dependent aspects are reconciled against the
// new column set; the whole edit is one transaction.
func (m *Manager) UpdateTable(ctx context.Context, boardID int64, in TableInput) (*Board, error) {
	tx, err := m.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	b, err := m.getBoard(ctx, tx, boardID)
	if err != nil {
		return nil, err
	}

	pb := m.store.Dialect.NewParamBuilder()
	if _, err := store.Exec(ctx, tx, fmt.Sprintf(
		"UPDATE boards SET name = %s, note = %s, is_file_attach = %s, updated_at = %s WHERE id = %s",
		pb.Add(in.Name), pb.Add(in.Note), pb.Add(in.IsFileAttach),
		m.store.Dialect.NowExpr(), pb.Add(boardID)), pb.Params()...); err != nil {
		return nil, fmt.Errorf("update board: %w", err)
	}

	aspect := buildTableAspect(boardID, b.PhysicalTableName, in)
	if err := m.meta.SaveAspect(ctx, tx, boardID, metadata.AspectTable, aspect); err != nil {
		return nil, err
	}

	if err := m.mat.RecreatePhysicalTable(ctx, tx, b.PhysicalTableName, aspect.Columns); err != nil {
		return nil, err
	}

	if err := m.reconcileAspects(ctx, tx, boardID, aspect); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	log.Printf("board structure updated: id=%d (%d field(s))", boardID, len(in.Fields))
	return m.GetBoard(ctx, boardID)
}

// SaveListConfig persists the list-view aspect (wizard step 2).
func (m *Manager) SaveListConfig(ctx context.Context, boardID int64, la metadata.ListAspect) error {
	if la.PageSize <= 0 {
		la.PageSize = 20
	}
	return m.saveStepAspect(ctx, boardID, metadata.AspectList, &la, StatusListConfigured)
}

// SaveFormConfig persists the create/edit-form aspect (wizard step 3).
func (m *Manager) SaveFormConfig(ctx context.Context, boardID int64, fa metadata.FormAspect) error {
	if errs := checkFormConditions(fa); len(errs) > 0 {
		return &ValidationError{Details: errs}
	}
	return m.saveStepAspect(ctx, boardID, metadata.AspectForm, &fa, StatusFormConfigured)
}

// SaveViewConfig persists the detail-view aspect (wizard step 4).
func (m *Manager) SaveViewConfig(ctx context.Context, boardID int64, va metadata.ViewAspect) error {
	return m.saveStepAspect(ctx, boardID, metadata.AspectView, &va, StatusViewConfigured)
}

// Finish marks the wizard complete (step 5). No further writes.
func (m *Manager) Finish(ctx context.Context, boardID int64) error {
	tx, err := m.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	b, err := m.getBoard(ctx, tx, boardID)
	if err != nil {
		return err
	}
	if err := m.advanceStatus(ctx, tx, b, StatusFinished); err != nil {
		return err
	}
	return tx.Commit()
}

// GetBoard fetches one board row.
func (m *Manager) GetBoard(ctx context.Context, boardID int64) (*Board, error) {
	return m.getBoard(ctx, m.store.DB, boardID)
}

// ListBoards returns all boards, newest first.
func (m *Manager) ListBoards(ctx context.Context) ([]*Board, error) {
	rows, err := store.QueryRows(ctx, m.store.DB,
		"SELECT id, name, note, is_file_attach, status, physical_table_name, created_at, updated_at FROM boards ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	boards := make([]*Board, 0, len(rows))
	for _, row := range rows {
		boards = append(boards, boardFromRow(row))
	}
	return boards, nil
}

// DeleteBoard removes the board row, its aspects and its physical table in
// one transaction.
func (m *Manager) DeleteBoard(ctx context.Context, boardID int64) error {
	tx, err := m.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	b, err := m.getBoard(ctx, tx, boardID)
	if err != nil {
		return err
	}

	if b.PhysicalTableName != "" {
		if err := m.mat.DropPhysicalTable(ctx, tx, b.PhysicalTableName); err != nil {
			return err
		}
	}
	if err := m.meta.DeleteAspects(ctx, tx, boardID); err != nil {
		return err
	}

	pb := m.store.Dialect.NewParamBuilder()
	if _, err := store.Exec(ctx, tx, fmt.Sprintf("DELETE FROM boards WHERE id = %s", pb.Add(boardID)), pb.Params()...); err != nil {
		return fmt.Errorf("delete board %d: %w", boardID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Printf("board deleted: id=%d (table=%s)", boardID, b.PhysicalTableName)
	return nil
}

// TableAspect loads the board's current table-schema document.
func (m *Manager) TableAspect(ctx context.Context, boardID int64) (*metadata.TableAspect, error) {
	if _, err := m.getBoard(ctx, m.store.DB, boardID); err != nil {
		return nil, err
	}
	var ta metadata.TableAspect
	if err := m.meta.LoadAspect(ctx, m.store.DB, boardID, metadata.AspectTable, &ta); err != nil {
		return nil, err
	}
	return &ta, nil
}

// --- internals ---

func (m *Manager) getBoard(ctx context.Context, q store.Querier, boardID int64) (*Board, error) {
	pb := m.store.Dialect.NewParamBuilder()
	row, err := store.QueryRow(ctx, q, fmt.Sprintf(
		"SELECT id, name, note, is_file_attach, status, physical_table_name, created_at, updated_at FROM boards WHERE id = %s",
		pb.Add(boardID)), pb.Params()...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("get board %d: %w", boardID, err)
	}
	return boardFromRow(row), nil
}

func (m *Manager) saveStepAspect(ctx context.Context, boardID int64, name string, doc any, status string) error {
	tx, err := m.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	b, err := m.getBoard(ctx, tx, boardID)
	if err != nil {
		return err
	}
	if err := m.meta.SaveAspect(ctx, tx, boardID, name, doc); err != nil {
		return err
	}
	if err := m.advanceStatus(ctx, tx, b, status); err != nil {
		return err
	}
	return tx.Commit()
}

func (m *Manager) advanceStatus(ctx context.Context, tx *sql.Tx, b *Board, status string) error {
	if statusRank[status] <= statusRank[b.Status] {
		return nil
	}
	pb := m.store.Dialect.NewParamBuilder()
	if _, err := store.Exec(ctx, tx, fmt.Sprintf(
		"UPDATE boards SET status = %s, updated_at = %s WHERE id = %s",
		pb.Add(status), m.store.Dialect.NowExpr(), pb.Add(b.ID)), pb.Params()...); err != nil {
		return fmt.Errorf("advance board %d to %s: %w", b.ID, status, err)
	}
	return nil
}

// reconcileAspects drops references to columns that no longer exist from the
// list/create_edit/view aspects after a structural edit. Render-time lookups
// still skip unknown columns defensively; reconciliation keeps the stored
// documents from accumulating stale references.
func (m *Manager) reconcileAspects(ctx context.Context, tx *sql.Tx, boardID int64, ta *metadata.TableAspect) error {
	var la metadata.ListAspect
	err := m.meta.LoadAspect(ctx, tx, boardID, metadata.AspectList, &la)
	switch {
	case err == nil:
		la.Columns = filterStrings(la.Columns, ta)
		la.SearchColumns = filterStrings(la.SearchColumns, ta)
		if la.DefaultSort != nil && !ta.HasColumn(la.DefaultSort.Column) {
			la.DefaultSort = nil
		}
		if err := m.meta.SaveAspect(ctx, tx, boardID, metadata.AspectList, &la); err != nil {
			return err
		}
	case !errors.Is(err, metadata.ErrAspectNotFound):
		return err
	}

	var fa metadata.FormAspect
	err = m.meta.LoadAspect(ctx, tx, boardID, metadata.AspectForm, &fa)
	switch {
	case err == nil:
		kept := fa.Fields[:0]
		for _, f := range fa.Fields {
			if ta.HasColumn(f.Name) {
				kept = append(kept, f)
			}
		}
		fa.Fields = kept
		if err := m.meta.SaveAspect(ctx, tx, boardID, metadata.AspectForm, &fa); err != nil {
			return err
		}
	case !errors.Is(err, metadata.ErrAspectNotFound):
		return err
	}

	var va metadata.ViewAspect
	err = m.meta.LoadAspect(ctx, tx, boardID, metadata.AspectView, &va)
	switch {
	case err == nil:
		kept := va.Fields[:0]
		for _, f := range va.Fields {
			if ta.HasColumn(f.Name) {
				kept = append(kept, f)
			}
		}
		va.Fields = kept
		if err := m.meta.SaveAspect(ctx, tx, boardID, metadata.AspectView, &va); err != nil {
			return err
		}
	case !errors.Is(err, metadata.ErrAspectNotFound):
		return err
	}

	return nil
}

func filterStrings(names []string, ta *metadata.TableAspect) []string {
	kept := names[:0]
	for _, n := range names {
		if ta.HasColumn(n) {
			kept = append(kept, n)
		}
	}
	return kept
}

func buildTableAspect(boardID int64, tableName string, in TableInput) *metadata.TableAspect {
	cols := make([]metadata.ColumnDef, len(in.Fields))
	for i, f := range in.Fields {
		cols[i] = metadata.ColumnDef{
			Name:     schema.ColumnName(i + 1),
			Label:    f.Label,
			DataType: f.DataType,
			Comment:  f.Comment,
		}
	}
	return &metadata.TableAspect{
		ID:                boardID,
		Name:              in.Name,
		Note:              in.Note,
		IsFileAttach:      in.IsFileAttach,
		PhysicalTableName: tableName,
		Columns:           cols,
	}
}
