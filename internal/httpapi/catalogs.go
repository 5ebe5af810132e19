package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"autoboard/internal/catalog"
)

// CatalogHandler serves the fixed catalogs the wizard renders its pickers
// from.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// DataTypes handles GET /api/catalogs/data-types.
func (h *CatalogHandler) DataTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": catalog.DataTypes()})
}

// ElementTypes handles GET /api/catalogs/element-types.
func (h *CatalogHandler) ElementTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": catalog.ElementTypes()})
}

// DisplayTypes handles GET /api/catalogs/display-types. Pass core=true to
// get only the display types every data type maps to by default.
func (h *CatalogHandler) DisplayTypes(c *fiber.Ctx) error {
	if c.QueryBool("core") {
		return c.JSON(fiber.Map{"data": catalog.CoreDisplayTypes()})
	}
	return c.JSON(fiber.Map{"data": catalog.DisplayTypes()})
}
