package httpapi

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"

	"autoboard/internal/storage"
	"autoboard/internal/store"
)

// FileHandler handles attachment upload, download and deletion. File bytes
// live on disk; the files table carries the logical name and location.
type FileHandler struct {
	store   *store.Store
	files   *storage.LocalStorage
	maxSize int64
}

func NewFileHandler(s *store.Store, files *storage.LocalStorage, maxSize int64) *FileHandler {
	return &FileHandler{store: s, files: files, maxSize: maxSize}
}

// Upload handles POST /api/files with a multipart "file" part.
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return InvalidPayloadError("Missing file upload")
	}
	if h.maxSize > 0 && header.Size > h.maxSize {
		return NewAppError("FILE_TOO_LARGE", fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds the %d byte limit", h.maxSize))
	}

	src, err := header.Open()
	if err != nil {
		return StorageFailureError("Could not read upload")
	}
	defer src.Close()

	var reader io.Reader = src
	if h.maxSize > 0 {
		reader = io.LimitReader(src, h.maxSize)
	}

	ctx := c.Context()
	saved, err := h.files.Save(ctx, header.Filename, reader)
	if err != nil {
		return StorageFailureError("Could not store file")
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	pb := h.store.Dialect.NewParamBuilder()
	id, err := store.InsertRow(ctx, h.store.DB, fmt.Sprintf(
		"INSERT INTO files (base_folder, physical_name, logical_name, size, mime) VALUES (%s, %s, %s, %s, %s) RETURNING id",
		pb.Add(saved.BaseFolder), pb.Add(saved.PhysicalName), pb.Add(header.Filename),
		pb.Add(saved.Size), pb.Add(mime)), pb.Params()...)
	if err != nil {
		// Do not leave an orphan on disk when the row write fails.
		if cleanupErr := h.files.Delete(ctx, saved.BaseFolder, saved.PhysicalName); cleanupErr != nil {
			log.Printf("WARN: orphaned upload %s/%s not removed: %v", saved.BaseFolder, saved.PhysicalName, cleanupErr)
		}
		return StorageFailureError("Could not record file")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":           id,
		"logical_name": header.Filename,
		"size":         saved.Size,
		"mime":         mime,
	}})
}

// Download handles GET /api/files/:id, streaming the stored bytes with the
// original filename.
func (h *FileHandler) Download(c *fiber.Ctx) error {
	row, err := h.fileRow(c)
	if err != nil {
		return err
	}

	baseFolder, _ := row["base_folder"].(string)
	physicalName, _ := row["physical_name"].(string)
	logicalName, _ := row["logical_name"].(string)
	mime, _ := row["mime"].(string)

	f, err := h.files.Open(c.Context(), baseFolder, physicalName)
	if err != nil {
		return StorageFailureError("Stored file is missing")
	}

	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", logicalName))
	return c.SendStream(f)
}

// Delete handles DELETE /api/files/:id, removing the row and the bytes.
func (h *FileHandler) Delete(c *fiber.Ctx) error {
	row, err := h.fileRow(c)
	if err != nil {
		return err
	}

	baseFolder, _ := row["base_folder"].(string)
	physicalName, _ := row["physical_name"].(string)
	fileID := row["id"]

	ctx := c.Context()
	pb := h.store.Dialect.NewParamBuilder()
	if _, err := store.Exec(ctx, h.store.DB, fmt.Sprintf(
		"DELETE FROM files WHERE id = %s", pb.Add(fileID)), pb.Params()...); err != nil {
		return StorageFailureError("Could not delete file record")
	}
	if err := h.files.Delete(ctx, baseFolder, physicalName); err != nil {
		return StorageFailureError("Could not delete stored file")
	}
	return c.JSON(fiber.Map{"message": "File deleted"})
}

func (h *FileHandler) fileRow(c *fiber.Ctx) (map[string]any, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, InvalidPayloadError("Invalid file id")
	}

	pb := h.store.Dialect.NewParamBuilder()
	row, err := store.QueryRow(c.Context(), h.store.DB, fmt.Sprintf(
		"SELECT id, base_folder, physical_name, logical_name, size, mime FROM files WHERE id = %s",
		pb.Add(int64(id))), pb.Params()...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewAppError("FILE_NOT_FOUND", fiber.StatusNotFound, "File not found")
		}
		return nil, err
	}
	return row, nil
}
