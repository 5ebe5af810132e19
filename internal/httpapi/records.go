package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"autoboard/internal/board"
)

// RecordHandler exposes generic record CRUD against a board's table.
type RecordHandler struct {
	mgr *board.Manager
}

func NewRecordHandler(mgr *board.Manager) *RecordHandler {
	return &RecordHandler{mgr: mgr}
}

// Create handles POST /api/boards/:id/records.
func (h *RecordHandler) Create(c *fiber.Ctx) error {
	bid, err := boardID(c)
	if err != nil {
		return err
	}

	values, err := parseRecordBody(c)
	if err != nil {
		return err
	}

	id, err := h.mgr.CreateRecord(c.Context(), bid, values)
	if err != nil {
		return err
	}

	rec, err := h.mgr.GetRecord(c.Context(), bid, id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": rec})
}

// List handles GET /api/boards/:id/records.
func (h *RecordHandler) List(c *fiber.Ctx) error {
	bid, err := boardID(c)
	if err != nil {
		return err
	}
	rows, err := h.mgr.ListRecords(c.Context(), bid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// Get handles GET /api/boards/:id/records/:rid.
func (h *RecordHandler) Get(c *fiber.Ctx) error {
	bid, err := boardID(c)
	if err != nil {
		return err
	}
	rid, err := recordID(c)
	if err != nil {
		return err
	}
	rec, err := h.mgr.GetRecord(c.Context(), bid, rid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rec})
}

// Update handles PUT /api/boards/:id/records/:rid.
func (h *RecordHandler) Update(c *fiber.Ctx) error {
	bid, err := boardID(c)
	if err != nil {
		return err
	}
	rid, err := recordID(c)
	if err != nil {
		return err
	}

	values, err := parseRecordBody(c)
	if err != nil {
		return err
	}

	if err := h.mgr.UpdateRecord(c.Context(), bid, rid, values); err != nil {
		return err
	}

	rec, err := h.mgr.GetRecord(c.Context(), bid, rid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rec})
}

// Delete handles DELETE /api/boards/:id/records/:rid.
func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	bid, err := boardID(c)
	if err != nil {
		return err
	}
	rid, err := recordID(c)
	if err != nil {
		return err
	}
	if err := h.mgr.DeleteRecord(c.Context(), bid, rid); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Record deleted"})
}

func recordID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("rid")
	if err != nil || id <= 0 {
		return 0, InvalidPayloadError("Invalid record id")
	}
	return int64(id), nil
}

func parseRecordBody(c *fiber.Ctx) (board.Record, error) {
	values := board.Record{}
	if err := c.BodyParser(&values); err != nil {
		return nil, InvalidPayloadError("")
	}
	return values, nil
}
