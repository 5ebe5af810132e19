package httpapi

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"autoboard/internal/board"
	"autoboard/internal/catalog"
	"autoboard/internal/metadata"
	"autoboard/internal/render"
	"autoboard/internal/store"
)

// BoardHandler exposes the board wizard and board CRUD.
type BoardHandler struct {
	mgr   *board.Manager
	meta  *metadata.Store
	store *store.Store
}

func NewBoardHandler(mgr *board.Manager, meta *metadata.Store, s *store.Store) *BoardHandler {
	return &BoardHandler{mgr: mgr, meta: meta, store: s}
}

// Create handles POST /api/boards (wizard step 1, first submission).
func (h *BoardHandler) Create(c *fiber.Ctx) error {
	in, err := parseTableInput(c)
	if err != nil {
		return err
	}

	b, err := h.mgr.CreateBoard(c.Context(), *in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": b})
}

// List handles GET /api/boards.
func (h *BoardHandler) List(c *fiber.Ctx) error {
	boards, err := h.mgr.ListBoards(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": boards})
}

// Get handles GET /api/boards/:id.
func (h *BoardHandler) Get(c *fiber.Ctx) error {
	id, err := boardID(c)
	if err != nil {
		return err
	}
	b, err := h.mgr.GetBoard(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": b})
}

// Delete handles DELETE /api/boards/:id.
func (h *BoardHandler) Delete(c *fiber.Ctx) error {
	id, err := boardID(c)
	if err != nil {
		return err
	}
	if err := h.mgr.DeleteBoard(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Board deleted"})
}

// UpdateTable handles PUT /api/boards/:id/table (wizard step 1 re-entry).
func (h *BoardHandler) UpdateTable(c *fiber.Ctx) error {
	id, err := boardID(c)
	if err != nil {
		return err
	}
	in, err := parseTableInput(c)
	if err != nil {
		return err
	}

	b, err := h.mgr.UpdateTable(c.Context(), id, *in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": b})
}

// SaveList handles PUT /api/boards/:id/list (wizard step 2).
func (h *BoardHandler) SaveList(c *fiber.Ctx) error {
	id, err := boardID(c)
	if err != nil {
		return err
	}
	var la metadata.ListAspect
	if err := c.BodyParser(&la); err != nil {
		return InvalidPayloadError("")
	}
	if err := h.mgr.SaveListConfig(c.Context(), id, la); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "List configuration saved"})
}

// SaveForm handles PUT /api/boards/:id/form (wizard step 3).
func (h *BoardHandler) SaveForm(c *fiber.Ctx) error {
	id, err := boardID(c)
	if err != nil {
		return err
	}
	var fa metadata.FormAspect
	if err := c.BodyParser(&fa); err != nil {
		return InvalidPayloadError("")
	}
	if err := h.mgr.SaveFormConfig(c.Context(), id, fa); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Form configuration saved"})
}

// SaveView handles PUT /api/boards/:id/view (wizard step 4).
func (h *BoardHandler) SaveView(c *fiber.Ctx) error {
	id, err := boardID(c)
	if err != nil {
		return err
	}
	var va metadata.ViewAspect
	if err := c.BodyParser(&va); err != nil {
		return InvalidPayloadError("")
	}
	if err := h.mgr.SaveViewConfig(c.Context(), id, va); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "View configuration saved"})
}

// Finish handles POST /api/boards/:id/finish (wizard step 5).
func (h *BoardHandler) Finish(c *fiber.Ctx) error {
	id, err := boardID(c)
	if err != nil {
		return err
	}
	if err := h.mgr.Finish(c.Context(), id); err != nil {
		return err
	}
	b, err := h.mgr.GetBoard(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": b})
}

// GetAspect handles GET /api/boards/:id/aspects/:name, returning the stored
// document verbatim.
func (h *BoardHandler) GetAspect(c *fiber.Ctx) error {
	id, err := boardID(c)
	if err != nil {
		return err
	}
	name := c.Params("name")
	if !validAspectName(name) {
		return NewAppError("ASPECT_NOT_FOUND", fiber.StatusNotFound, "Unknown aspect name")
	}

	if _, err := h.mgr.GetBoard(c.Context(), id); err != nil {
		return err
	}

	raw, err := h.meta.GetAspect(c.Context(), h.store.DB, id, name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": json.RawMessage(raw)})
}

// GetRendering handles GET /api/boards/:id/rendering. It composes the stored
// aspects into directives for all four UI contexts.
func (h *BoardHandler) GetRendering(c *fiber.Ctx) error {
	id, err := boardID(c)
	if err != nil {
		return err
	}
	if _, err := h.mgr.GetBoard(c.Context(), id); err != nil {
		return err
	}

	ctx := c.Context()
	var ta metadata.TableAspect
	if err := h.meta.LoadAspect(ctx, h.store.DB, id, metadata.AspectTable, &ta); err != nil {
		return err
	}

	var la *metadata.ListAspect
	var doc metadata.ListAspect
	switch err := h.meta.LoadAspect(ctx, h.store.DB, id, metadata.AspectList, &doc); {
	case err == nil:
		la = &doc
	case !errors.Is(err, metadata.ErrAspectNotFound):
		return err
	}

	var fa *metadata.FormAspect
	var formDoc metadata.FormAspect
	switch err := h.meta.LoadAspect(ctx, h.store.DB, id, metadata.AspectForm, &formDoc); {
	case err == nil:
		fa = &formDoc
	case !errors.Is(err, metadata.ErrAspectNotFound):
		return err
	}

	var va *metadata.ViewAspect
	var viewDoc metadata.ViewAspect
	switch err := h.meta.LoadAspect(ctx, h.store.DB, id, metadata.AspectView, &viewDoc); {
	case err == nil:
		va = &viewDoc
	case !errors.Is(err, metadata.ErrAspectNotFound):
		return err
	}

	return c.JSON(fiber.Map{"data": render.Resolve(&ta, la, fa, va)})
}

// --- helpers ---

func boardID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, InvalidPayloadError("Invalid board id")
	}
	return int64(id), nil
}

func parseTableInput(c *fiber.Ctx) (*board.TableInput, error) {
	var in board.TableInput
	if err := c.BodyParser(&in); err != nil {
		return nil, InvalidPayloadError("")
	}

	if strings.TrimSpace(in.Name) == "" {
		return nil, InvalidPayloadError("Board name is required")
	}
	if len(in.Fields) == 0 {
		return nil, InvalidPayloadError("At least one field is required")
	}
	for i, f := range in.Fields {
		if strings.TrimSpace(f.Label) == "" {
			return nil, InvalidPayloadError("Every field needs a label")
		}
		if _, ok := catalog.DataTypeByValue(f.DataType); !ok {
			return nil, InvalidPayloadError("Unknown data type: " + f.DataType)
		}
		in.Fields[i].Label = strings.TrimSpace(f.Label)
	}
	return &in, nil
}

func validAspectName(name string) bool {
	switch name {
	case metadata.AspectTable, metadata.AspectList, metadata.AspectForm, metadata.AspectView:
		return true
	}
	return false
}
