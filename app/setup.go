package app

import (
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/campusgate/admissions-api/api"
	"github.com/campusgate/admissions-api/config"
	"github.com/campusgate/admissions-api/database"
	"github.com/campusgate/admissions-api/router"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/services/cron"
	"github.com/campusgate/admissions-api/utils/auth"
)

// SetupAndRunServer loads configuration, connects the database, starts the
// maintenance jobs and serves the API
func SetupAndRunServer() error {
	if err := config.LoadENV(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	store, err := database.StartGORM()
	if err != nil {
		return fmt.Errorf("database connection failed (is Postgres running?): %w", err)
	}

	if err := store.Init(); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return fmt.Errorf("failed to get GORM DB instance")
	}

	if err := database.NewSeeder(db).SeedAll(); err != nil {
		return fmt.Errorf("database seeding failed: %w", err)
	}

	// Maintenance sweeps, on unless explicitly disabled
	var cronManager *cron.Manager
	if os.Getenv("CRON_ENABLED") != "false" {
		cronManager = cron.NewManager(db, auth.NewBlacklistService(db), services.NewNotificationService(db))
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: failed to start cron jobs: %v", err)
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT))
	router.SetupRoutes(server.GetEngine(), store, env)

	return server.Run()
}
