// Package schema turns field-definition lists into physical storage.
package schema

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"autoboard/internal/catalog"
	"autoboard/internal/metadata"
	"autoboard/internal/store"
)

// StructuralChangeBlockedError is returned when a table recreate is attempted
// while the table still holds records. It carries the blocking row count so
// callers can surface it to the user.
type StructuralChangeBlockedError struct {
	Table    string
	RowCount int64
}

func (e *StructuralChangeBlockedError) Error() string {
	return fmt.Sprintf("table %s holds %d record(s); delete them before changing its structure", e.Table, e.RowCount)
}

// Identifiers are always generated by the system (table_<id>, col<N>), never
// user input. The pattern guard is a backstop against identifier injection
// through a tampered metadata document.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether s is safe to interpolate into DDL/DML.
func ValidIdentifier(s string) bool {
	return identPattern.MatchString(s)
}

// StorageType maps a data type to its physical storage classification.
// Total: unknown data types store as TEXT.
func StorageType(dataType string) string {
	switch strings.ToLower(dataType) {
	case catalog.DataInteger, catalog.DataBoolean:
		return "INTEGER"
	case catalog.DataReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// ColumnName generates the storage column name for the field at position
// (1-based). Names are positional by design: every structural submit
// regenerates them, which is safe only because structure changes always
// recreate the table from scratch.
func ColumnName(position int) string {
	return fmt.Sprintf("col%d", position)
}

// TableName generates the physical table name for a board.
func TableName(boardID int64) string {
	return fmt.Sprintf("table_%d", boardID)
}

// Materializer executes DDL derived from field definitions.
type Materializer struct {
	dialect store.Dialect
}

func NewMaterializer(dialect store.Dialect) *Materializer {
	return &Materializer{dialect: dialect}
}

// CreatePhysicalTable creates the table: surrogate auto-increment id, one
// column per field definition in order, then created_at/updated_at defaulting
// to the current time. User columns carry no NOT NULL constraints; required
// flags are enforced at the form level, not in storage.
func (m *Materializer) CreatePhysicalTable(ctx context.Context, q store.Querier, tableName string, fields []metadata.ColumnDef) error {
	ddl, err := m.buildCreateSQL(tableName, fields)
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", tableName, err)
	}
	return nil
}

// RecreatePhysicalTable drops and recreates the table with the new field
// definitions, refusing when any rows exist. The row-count check and the
// drop run on the same Querier; callers pass a transaction so the
// check-then-act sequence holds its lock for the whole recreate.
func (m *Materializer) RecreatePhysicalTable(ctx context.Context, q store.Querier, tableName string, fields []metadata.ColumnDef) error {
	count, err := m.CountRows(ctx, q, tableName)
	if err != nil {
		return err
	}
	if count > 0 {
		return &StructuralChangeBlockedError{Table: tableName, RowCount: count}
	}

	if err := m.DropPhysicalTable(ctx, q, tableName); err != nil {
		return err
	}
	return m.CreatePhysicalTable(ctx, q, tableName, fields)
}

// DropPhysicalTable removes the table if it exists.
func (m *Materializer) DropPhysicalTable(ctx context.Context, q store.Querier, tableName string) error {
	if !ValidIdentifier(tableName) {
		return fmt.Errorf("invalid table name %q", tableName)
	}
	if _, err := q.ExecContext(ctx, "DROP TABLE IF EXISTS "+tableName); err != nil {
		return fmt.Errorf("drop table %s: %w", tableName, err)
	}
	return nil
}

// CountRows returns the number of records in the table.
func (m *Materializer) CountRows(ctx context.Context, q store.Querier, tableName string) (int64, error) {
	if !ValidIdentifier(tableName) {
		return 0, fmt.Errorf("invalid table name %q", tableName)
	}
	var count int64
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+tableName).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows in %s: %w", tableName, err)
	}
	return count, nil
}

// TableExists reports whether the physical table exists.
func (m *Materializer) TableExists(ctx context.Context, q store.Querier, tableName string) (bool, error) {
	return m.dialect.TableExists(ctx, q, tableName)
}

// PhysicalColumns returns the table's columns in definition order.
func (m *Materializer) PhysicalColumns(ctx context.Context, q store.Querier, tableName string) ([]store.ColumnInfo, error) {
	return m.dialect.GetColumns(ctx, q, tableName)
}

func (m *Materializer) buildCreateSQL(tableName string, fields []metadata.ColumnDef) (string, error) {
	if !ValidIdentifier(tableName) {
		return "", fmt.Errorf("invalid table name %q", tableName)
	}

	cols := []string{m.dialect.AutoIncrementPK()}
	for _, f := range fields {
		if !ValidIdentifier(f.Name) {
			return "", fmt.Errorf("invalid column name %q", f.Name)
		}
		cols = append(cols, f.Name+" "+StorageType(f.DataType))
	}
	cols = append(cols,
		"created_at "+m.dialect.TimestampColumn(),
		"updated_at "+m.dialect.TimestampColumn(),
	)

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", tableName, strings.Join(cols, ",\n  ")), nil
}
