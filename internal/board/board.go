// Package board orchestrates the board lifecycle (the creation wizard) and
// generic record CRUD against each board's materialized table.
package board

import (
	"errors"
	"fmt"
	"time"
)

// Wizard statuses, in order. A board becomes usable for record CRUD once
// finished; re-editing an earlier step never regresses the status.
const (
	StatusDraft          = "draft"
	StatusTableDefined   = "table_defined"
	StatusListConfigured = "list_configured"
	StatusFormConfigured = "form_configured"
	StatusViewConfigured = "view_configured"
	StatusFinished       = "finished"
)

var statusRank = map[string]int{
	StatusDraft:          0,
	StatusTableDefined:   1,
	StatusListConfigured: 2,
	StatusFormConfigured: 3,
	StatusViewConfigured: 4,
	StatusFinished:       5,
}

var ErrBoardNotFound = errors.New("board not found")
var ErrRecordNotFound = errors.New("record not found")

// UnknownColumnError reports a record payload key that is not declared by the
// board's current table aspect.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// FieldError is one failed check on a submitted record value.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError aggregates the failed checks for a record write.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%d error(s))", len(e.Details))
}

// Board is one user-defined record type.
type Board struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Note              string    `json:"note,omitempty"`
	IsFileAttach      bool      `json:"is_file_attach"`
	Status            string    `json:"status"`
	PhysicalTableName string    `json:"physical_table_name"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FieldInput is one field definition as submitted by wizard step 1. The
// storage column name is generated positionally and never taken from input.
type FieldInput struct {
	Label    string `json:"label"`
	DataType string `json:"data_type"`
	Comment  string `json:"comment,omitempty"`
}

// TableInput is the wizard step-1 payload.
type TableInput struct {
	Name         string       `json:"name"`
	Note         string       `json:"note,omitempty"`
	IsFileAttach bool         `json:"is_file_attach"`
	Fields       []FieldInput `json:"fields"`
}

// Record is a row of a board's physical table, keyed by storage column name.
type Record = map[string]any

func boardFromRow(row map[string]any) *Board {
	b := &Board{}
	if v, ok := row["id"].(int64); ok {
		b.ID = v
	}
	if v, ok := row["name"].(string); ok {
		b.Name = v
	}
	if v, ok := row["note"].(string); ok {
		b.Note = v
	}
	switch v := row["is_file_attach"].(type) {
	case bool:
		b.IsFileAttach = v
	case int64:
		b.IsFileAttach = v != 0
	}
	if v, ok := row["status"].(string); ok {
		b.Status = v
	}
	if v, ok := row["physical_table_name"].(string); ok {
		b.PhysicalTableName = v
	}
	if v, ok := row["created_at"].(time.Time); ok {
		b.CreatedAt = v
	}
	if v, ok := row["updated_at"].(time.Time); ok {
		b.UpdatedAt = v
	}
	return b
}
