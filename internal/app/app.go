package app

import (
	"bluecarbon-backend/internal/admin"
	"bluecarbon-backend/internal/audit"
	"bluecarbon-backend/internal/auth"
	"bluecarbon-backend/internal/config"
	"bluecarbon-backend/internal/credits"
	"bluecarbon-backend/internal/database"
	"bluecarbon-backend/internal/events"
	"bluecarbon-backend/internal/health"
	"bluecarbon-backend/internal/ledger"
	"bluecarbon-backend/internal/measurements"
	"bluecarbon-backend/internal/middleware"
	"bluecarbon-backend/internal/projects"
	"bluecarbon-backend/internal/uploads"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration, and returns the DB/Redis handles for startup checks.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(cors.New())

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
	}
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// Postgres in deployed environments; embedded sqlite for local runs.
	var db *gorm.DB
	var err error
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
	} else {
		db, err = gorm.Open(sqlite.Open("bluecarbon.db"), &gorm.Config{})
	}
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	owner := uuid.Nil
	if cfg.OwnerAccountID != "" {
		owner, err = uuid.Parse(cfg.OwnerAccountID)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	var opts []ledger.Option
	if rdb != nil {
		opts = append(opts, ledger.WithPublisher(&events.RedisPublisher{
			Rdb:     rdb,
			Channel: cfg.AuditChannel,
		}))
	}
	led, err := ledger.Open(db, owner, opts...)
	if err != nil {
		return nil, nil, nil, err
	}

	// Health module (no auth)
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		DB:             db,
		Ledger:         led,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	// Accounts: registration is open; /me requires auth
	authService := &auth.Service{DB: db}
	authHandlers := &auth.Handlers{Service: authService}
	app.Post("/api/v1/accounts", authHandlers.Register)
	app.Get("/api/v1/accounts/me", middleware.RequireAuth(authService), authHandlers.Me)

	requireAuth := middleware.RequireAuth(authService)

	// Projects module
	projectHandlers := &projects.Handlers{Ledger: led}
	projectGroup := app.Group("/api/v1/projects", requireAuth)
	projectGroup.Post("/register", projectHandlers.Register)
	projectGroup.Get("/owned", projectHandlers.Owned)
	projectGroup.Get("/:id", projectHandlers.GetByID)
	projectGroup.Patch("/:id/verify", projectHandlers.Verify)
	projectGroup.Post("/:id/deactivate", projectHandlers.Deactivate)

	// MRV module
	mrvHandlers := &measurements.Handlers{Ledger: led}
	mrvGroup := app.Group("/api/v1/mrv", requireAuth)
	mrvGroup.Post("/upload", mrvHandlers.Upload)
	mrvGroup.Post("/batch-upload", mrvHandlers.BatchUpload)
	mrvGroup.Get("/project/:projectId", mrvHandlers.ListByProject)
	mrvGroup.Get("/:id", mrvHandlers.GetByID)
	mrvGroup.Patch("/:id/verify", mrvHandlers.Verify)

	// Credits module
	creditHandlers := &credits.Handlers{Ledger: led}
	creditGroup := app.Group("/api/v1/credits", requireAuth)
	creditGroup.Post("/mint", creditHandlers.Mint)
	creditGroup.Post("/retire", creditHandlers.Retire)
	creditGroup.Post("/transfer", creditHandlers.Transfer)
	creditGroup.Post("/approve", creditHandlers.Approve)
	creditGroup.Post("/transfer-from", creditHandlers.TransferFrom)
	creditGroup.Get("/supply", creditHandlers.Supply)
	creditGroup.Get("/balance", creditHandlers.Balance)
	creditGroup.Get("/balance/:accountId", creditHandlers.Balance)
	creditGroup.Get("/batch/:id", creditHandlers.GetBatch)
	creditGroup.Get("/project/:projectId", creditHandlers.ListByProject)

	// Admin module (ledger enforces Owner checks)
	adminHandlers := &admin.Handlers{Ledger: led}
	adminGroup := app.Group("/api/v1/admin", requireAuth)
	adminGroup.Post("/verifiers", adminHandlers.AddVerifier)
	adminGroup.Delete("/verifiers/:accountId", adminHandlers.RemoveVerifier)
	adminGroup.Post("/reporters", adminHandlers.AddReporter)
	adminGroup.Delete("/reporters/:accountId", adminHandlers.RemoveReporter)
	adminGroup.Post("/transfer-ownership", adminHandlers.TransferOwnership)
	adminGroup.Post("/pause", adminHandlers.Pause)
	adminGroup.Post("/unpause", adminHandlers.Unpause)
	adminGroup.Get("/status", adminHandlers.Status)
	adminGroup.Get("/roles/:accountId", adminHandlers.Roles)

	// Audit module
	auditHandlers := &audit.Handlers{Ledger: led}
	app.Get("/api/v1/audit/events", requireAuth, auditHandlers.ListEvents)

	// Uploads module (content-addressed evidence store)
	uploadService := &uploads.Service{
		Client: &uploads.HTTPClient{
			BaseURL:   cfg.StorageURL,
			SecretKey: cfg.StorageKey,
		},
	}
	uploadHandlers := &uploads.Handlers{Service: uploadService}
	app.Post("/api/v1/uploads/evidence", requireAuth, uploadHandlers.UploadEvidence)

	return app, db, rdb, nil
}
