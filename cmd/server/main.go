package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"autoboard/internal/board"
	"autoboard/internal/config"
	"autoboard/internal/httpapi"
	"autoboard/internal/metadata"
	"autoboard/internal/schema"
	"autoboard/internal/storage"
	"autoboard/internal/store"
)

func main() {
	ctx := context.Background()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (port: %d, driver: %s)", cfg.Server.Port, cfg.Database.Driver)

	// 2. Connect to database
	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	// 3. Bootstrap system tables
	if err := db.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to bootstrap system tables: %v", err)
	}
	log.Println("System tables ready")

	// 4. Build the domain services
	meta := metadata.NewStore(db.Dialect)
	mat := schema.NewMaterializer(db.Dialect)
	mgr := board.NewManager(db, meta, mat)
	files := storage.NewLocalStorage(cfg.Storage.LocalPath)

	// 5. Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: httpapi.ErrorHandler,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// 6. Register routes
	httpapi.RegisterRoutes(app, httpapi.Handlers{
		Auth:     httpapi.NewAuthHandler(db, cfg.JWTSecret),
		Boards:   httpapi.NewBoardHandler(mgr, meta, db),
		Records:  httpapi.NewRecordHandler(mgr),
		Files:    httpapi.NewFileHandler(db, files, cfg.Storage.MaxFileSize),
		Catalogs: httpapi.NewCatalogHandler(),
	}, cfg.JWTSecret)

	// 7. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	log.Fatal(app.Listen(addr))
}
