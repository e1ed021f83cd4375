package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tindahan-pos/internal/config"
	"tindahan-pos/internal/handler"
	"tindahan-pos/internal/middleware"
	"tindahan-pos/internal/model"
	"tindahan-pos/internal/repository"
	"tindahan-pos/internal/service"
	"tindahan-pos/internal/ws"
	"tindahan-pos/pkg/database"
	"tindahan-pos/pkg/jwt"
	applog "tindahan-pos/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	log := applog.New(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	// 2. Setup Database
	dbLevel := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		dbLevel = gormlogger.Info
	}
	db, err := database.Connect(database.Options{
		Driver:     cfg.DBDriver,
		DSN:        cfg.DatabaseDSN,
		SQLitePath: cfg.SQLitePath,
		LogLevel:   dbLevel,
	})
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.WithError(err).Fatal("auto migrate failed")
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	resupplyRepo := repository.NewResupplyRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	reportRepo := repository.NewReportRepo(db)
	backupRepo := repository.NewBackupRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	catalogService := service.NewCatalogService(db, productRepo, supplierRepo, inventoryRepo, wsHub, log)
	invService := service.NewInventoryService(db, productRepo, supplierRepo, inventoryRepo, resupplyRepo, saleRepo, wsHub, log)
	reportService := service.NewReportingService(reportRepo, cfg.Location, log)
	backupService := service.NewBackupService(backupRepo, cfg.BackupDir, log)
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo, log)

	// 5. Seed default privileges, roles, and owner account
	if err := userService.EnsureOwner(context.Background(), cfg.SeedOwnerUsername, cfg.SeedOwnerPassword); err != nil {
		log.WithError(err).Fatal("seeding failed")
	}

	catalogHandler := handler.NewCatalogHandler(catalogService)
	invHandler := handler.NewInventoryHandler(invService)
	syncHandler := handler.NewSyncHandler(invService)
	reportHandler := handler.NewReportHandler(reportService)
	backupHandler := handler.NewBackupHandler(backupService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Tindahan POS v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	requireAuth := middleware.RequireAuth(tokens, userRepo)
	can := middleware.RequirePrivilege

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/change-password", requireAuth, authHandler.ChangePassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	// Catalog
	protected.Get("/products", can(model.PrivProductView), catalogHandler.GetProducts)
	protected.Get("/products/:id", can(model.PrivProductView), catalogHandler.GetProduct)
	protected.Post("/products", can(model.PrivProductCreate), catalogHandler.CreateProduct)
	protected.Put("/products/:id", can(model.PrivProductUpdate), catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", can(model.PrivProductDelete), catalogHandler.DeleteProduct)
	protected.Get("/products/:id/resupplies", can(model.PrivInventoryView), invHandler.GetResupplyHistory)

	protected.Get("/suppliers", can(model.PrivSupplierView), catalogHandler.GetSuppliers)
	protected.Get("/suppliers/:id", can(model.PrivSupplierView), catalogHandler.GetSupplier)
	protected.Post("/suppliers", can(model.PrivSupplierCreate), catalogHandler.CreateSupplier)
	protected.Put("/suppliers/:id", can(model.PrivSupplierUpdate), catalogHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", can(model.PrivSupplierDelete), catalogHandler.DeleteSupplier)

	// Ledger
	protected.Get("/inventory", can(model.PrivInventoryView), invHandler.GetInventory)
	protected.Post("/inventory/resupply", can(model.PrivInventoryResupply), invHandler.Resupply)
	protected.Post("/sales", can(model.PrivSaleCreate), invHandler.CreateSale)
	protected.Get("/sales/:id", can(model.PrivSaleView), invHandler.GetSale)

	// Reports
	reports := protected.Group("/reports", can(model.PrivReportView))
	reports.Get("/dashboard", reportHandler.GetDashboardStats)
	reports.Get("/today", reportHandler.GetTodaysSales)
	reports.Get("/low-stock", reportHandler.GetLowStock)
	reports.Get("/expired", reportHandler.GetExpired)
	reports.Get("/sales", reportHandler.GetSalesHistory)
	reports.Get("/sales/export", reportHandler.ExportSalesHistory)
	reports.Get("/stock-movement", reportHandler.GetStockMovement)

	// Backups
	protected.Get("/backups", can(model.PrivBackupView), backupHandler.GetBackups)
	protected.Post("/backups", can(model.PrivBackupCreate), backupHandler.CreateBackup)

	// User Management
	protected.Get("/users", can(model.PrivUserView), userHandler.GetUsers)
	protected.Get("/users/:id", can(model.PrivUserView), userHandler.GetUser)
	protected.Post("/users", can(model.PrivUserCreate), userHandler.CreateUser)
	protected.Delete("/users/:id", can(model.PrivUserDelete), userHandler.DeleteUser)
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// ============ TERMINAL SYNC ROUTES ============
	app.Get("/inventory", requireAuth, middleware.RequireAnyPrivilege(model.PrivInventoryView, model.PrivSaleCreate), syncHandler.ListInventory)
	app.Post("/resupply", requireAuth, can(model.PrivInventoryResupply), syncHandler.Resupply)
	app.Post("/sales", requireAuth, can(model.PrivSaleCreate), syncHandler.Sell)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Panic("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	wsHub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server exited")
}
