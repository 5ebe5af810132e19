package httpapi

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"autoboard/internal/board"
	"autoboard/internal/metadata"
	"autoboard/internal/schema"
	"autoboard/internal/store"
)

// AppError is the single error shape every endpoint returns.
type AppError struct {
	Code    string         `json:"code"`
	Status  int            `json:"-"`
	Message string         `json:"message"`
	Details any            `json:"details,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

type ErrorResponse struct {
	Error *AppError `json:"error"`
}

func NewAppError(code string, status int, msg string) *AppError {
	return &AppError{Code: code, Status: status, Message: msg}
}

func InvalidPayloadError(msg string) *AppError {
	if msg == "" {
		msg = "Invalid request body"
	}
	return NewAppError("INVALID_PAYLOAD", fiber.StatusBadRequest, msg)
}

func UnauthorizedError(msg string) *AppError {
	return NewAppError("UNAUTHORIZED", fiber.StatusUnauthorized, msg)
}

func StorageFailureError(msg string) *AppError {
	return NewAppError("STORAGE_FAILURE", fiber.StatusInternalServerError, msg)
}

// mapDomainError converts errors surfaced by the board, metadata, schema and
// store layers into AppErrors. Unrecognized errors pass through untouched and
// end up as INTERNAL_ERROR in the central handler.
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, board.ErrBoardNotFound):
		return NewAppError("BOARD_NOT_FOUND", fiber.StatusNotFound, "Board not found")
	case errors.Is(err, board.ErrRecordNotFound):
		return NewAppError("RECORD_NOT_FOUND", fiber.StatusNotFound, "Record not found")
	case errors.Is(err, metadata.ErrAspectNotFound):
		return NewAppError("ASPECT_NOT_FOUND", fiber.StatusNotFound, "Aspect not found")
	case errors.Is(err, store.ErrUniqueViolation):
		return NewAppError("DUPLICATE", fiber.StatusConflict, "A conflicting row already exists")
	}

	var blocked *schema.StructuralChangeBlockedError
	if errors.As(err, &blocked) {
		e := NewAppError("STRUCTURAL_CHANGE_BLOCKED", fiber.StatusConflict,
			"Table structure cannot change while the board has records")
		e.Extra = map[string]any{"row_count": blocked.RowCount}
		return e
	}

	var corrupt *metadata.CorruptMetadataError
	if errors.As(err, &corrupt) {
		return NewAppError("CORRUPT_METADATA", fiber.StatusInternalServerError,
			fmt.Sprintf("Stored %s metadata is unreadable", corrupt.Aspect))
	}

	var unknown *board.UnknownColumnError
	if errors.As(err, &unknown) {
		e := NewAppError("UNKNOWN_COLUMN", fiber.StatusUnprocessableEntity, unknown.Error())
		return e
	}

	var validation *board.ValidationError
	if errors.As(err, &validation) {
		e := NewAppError("VALIDATION_FAILED", fiber.StatusUnprocessableEntity, "Validation failed")
		e.Details = validation.Details
		return e
	}

	return err
}

// ErrorHandler is the Fiber error handler wired in at app construction.
func ErrorHandler(c *fiber.Ctx, err error) error {
	err = mapDomainError(err)

	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(ErrorResponse{Error: appErr})
	}

	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		return c.Status(code).JSON(ErrorResponse{
			Error: &AppError{Code: "HTTP_ERROR", Message: fiberErr.Message},
		})
	}

	log.Printf("ERROR: %v", err)
	return c.Status(code).JSON(ErrorResponse{
		Error: &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error"},
	})
}
