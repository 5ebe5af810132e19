// Package httpapi wires every HTTP endpoint onto a Fiber app: auth, the
// board wizard, record CRUD, file attachments and the wizard catalogs.
package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth     *AuthHandler
	Boards   *BoardHandler
	Records  *RecordHandler
	Files    *FileHandler
	Catalogs *CatalogHandler
}

// RegisterRoutes mounts all routes. Auth routes and the health check stay
// open; everything else sits behind the auth middleware.
func RegisterRoutes(app *fiber.App, h Handlers, jwtSecret string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authGroup := app.Group("/api/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.Refresh)
	authGroup.Post("/logout", h.Auth.Logout)

	api := app.Group("/api", AuthRequired(jwtSecret))
	api.Get("/auth/me", h.Auth.Me)

	catalogs := api.Group("/catalogs")
	catalogs.Get("/data-types", h.Catalogs.DataTypes)
	catalogs.Get("/element-types", h.Catalogs.ElementTypes)
	catalogs.Get("/display-types", h.Catalogs.DisplayTypes)

	boards := api.Group("/boards")
	boards.Post("/", h.Boards.Create)
	boards.Get("/", h.Boards.List)
	boards.Get("/:id", h.Boards.Get)
	boards.Delete("/:id", h.Boards.Delete)
	boards.Put("/:id/table", h.Boards.UpdateTable)
	boards.Put("/:id/list", h.Boards.SaveList)
	boards.Put("/:id/form", h.Boards.SaveForm)
	boards.Put("/:id/view", h.Boards.SaveView)
	boards.Post("/:id/finish", h.Boards.Finish)
	boards.Get("/:id/aspects/:name", h.Boards.GetAspect)
	boards.Get("/:id/rendering", h.Boards.GetRendering)

	boards.Post("/:id/records", h.Records.Create)
	boards.Get("/:id/records", h.Records.List)
	boards.Get("/:id/records/:rid", h.Records.Get)
	boards.Put("/:id/records/:rid", h.Records.Update)
	boards.Delete("/:id/records/:rid", h.Records.Delete)

	files := api.Group("/files")
	files.Post("/", h.Files.Upload)
	files.Get("/:id", h.Files.Download)
	files.Delete("/:id", h.Files.Delete)
}
