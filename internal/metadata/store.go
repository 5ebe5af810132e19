package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"autoboard/internal/store"
)

// ErrAspectNotFound is returned when no document exists for (board, aspect).
var ErrAspectNotFound = errors.New("aspect not found")

// CorruptMetadataError reports a stored payload that is not valid JSON.
// Normal writes always store valid JSON, so this indicates external
// tampering or storage corruption.
type CorruptMetadataError struct {
	BoardID int64
	Aspect  string
	Err     error
}

func (e *CorruptMetadataError) Error() string {
	return fmt.Sprintf("corrupt metadata for board %d aspect %q: %v", e.BoardID, e.Aspect, e.Err)
}

func (e *CorruptMetadataError) Unwrap() error { return e.Err }

// Store reads and writes aspect documents in the board_metadata table.
// It is type-agnostic key/value JSON storage scoped by board; aspect-specific
// validation belongs to the callers.
type Store struct {
	dialect store.Dialect
}

func NewStore(dialect store.Dialect) *Store {
	return &Store{dialect: dialect}
}

// SaveAspect serializes doc and upserts it under (boardID, name). Passing a
// transaction as q makes the write atomic with the caller's other writes.
func (s *Store) SaveAspect(ctx context.Context, q store.Querier, boardID int64, name string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s aspect: %w", name, err)
	}

	pb := s.dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(`
		INSERT INTO board_metadata (board_id, name, meta, schema_version)
		VALUES (%s, %s, %s, %s)
		ON CONFLICT (board_id, name)
		DO UPDATE SET meta = excluded.meta, schema_version = excluded.schema_version, updated_at = %s`,
		pb.Add(boardID), pb.Add(name), pb.Add(string(payload)), pb.Add(SchemaVersion),
		s.dialect.NowExpr(),
	)

	if _, err := store.Exec(ctx, q, sqlStr, pb.Params()...); err != nil {
		return fmt.Errorf("save %s aspect for board %d: %w", name, boardID, err)
	}
	return nil
}

// GetAspect returns the raw document stored under (boardID, name).
func (s *Store) GetAspect(ctx context.Context, q store.Querier, boardID int64, name string) (json.RawMessage, error) {
	pb := s.dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("SELECT meta FROM board_metadata WHERE board_id = %s AND name = %s",
		pb.Add(boardID), pb.Add(name))

	row, err := store.QueryRow(ctx, q, sqlStr, pb.Params()...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAspectNotFound
		}
		return nil, fmt.Errorf("get %s aspect for board %d: %w", name, boardID, err)
	}

	meta, _ := row["meta"].(string)
	raw := json.RawMessage(meta)
	if !json.Valid(raw) {
		return nil, &CorruptMetadataError{BoardID: boardID, Aspect: name, Err: errors.New("stored payload is not valid JSON")}
	}
	return raw, nil
}

// LoadAspect reads the document under (boardID, name) into dest.
func (s *Store) LoadAspect(ctx context.Context, q store.Querier, boardID int64, name string, dest any) error {
	raw, err := s.GetAspect(ctx, q, boardID, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return &CorruptMetadataError{BoardID: boardID, Aspect: name, Err: err}
	}
	return nil
}

// DeleteAspects removes every document belonging to a board.
func (s *Store) DeleteAspects(ctx context.Context, q store.Querier, boardID int64) error {
	pb := s.dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("DELETE FROM board_metadata WHERE board_id = %s", pb.Add(boardID))
	if _, err := store.Exec(ctx, q, sqlStr, pb.Params()...); err != nil {
		return fmt.Errorf("delete aspects for board %d: %w", boardID, err)
	}
	return nil
}
