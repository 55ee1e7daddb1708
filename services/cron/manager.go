package cron

import (
	"context"
	"log"
	"time"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/utils/auth"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Manager owns the scheduled maintenance jobs
type Manager struct {
	cron          *cron.Cron
	db            *gorm.DB
	blacklist     *auth.BlacklistService
	notifications *services.NotificationService
}

// NewManager creates the job scheduler. Start must be called to begin
// running jobs.
func NewManager(db *gorm.DB, blacklist *auth.BlacklistService, notifications *services.NotificationService) *Manager {
	return &Manager{
		cron:          cron.New(),
		db:            db,
		blacklist:     blacklist,
		notifications: notifications,
	}
}

// Start registers and starts the maintenance jobs
func (m *Manager) Start() error {
	// Hourly: deactivate programs whose application deadline has passed
	if _, err := m.cron.AddFunc("@hourly", m.sweepExpiredPrograms); err != nil {
		return err
	}

	// Daily: drop blacklist rows for tokens that have expired anyway
	if _, err := m.cron.AddFunc("@daily", m.purgeExpiredBlacklist); err != nil {
		return err
	}

	// Daily: remove read notifications older than ninety days
	if _, err := m.cron.AddFunc("@daily", m.cleanupOldNotifications); err != nil {
		return err
	}

	m.cron.Start()
	log.Println("Cron manager started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (m *Manager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron manager stopped")
}

func (m *Manager) sweepExpiredPrograms() {
	result := m.db.Model(&model.Program{}).
		Where("is_active = ? AND application_deadline < ?", true, time.Now()).
		Update("is_active", false)
	if result.Error != nil {
		log.Printf("Expired program sweep failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Deactivated %d programs past their application deadline", result.RowsAffected)
	}
}

func (m *Manager) purgeExpiredBlacklist() {
	purged, err := m.blacklist.PurgeExpired(context.Background())
	if err != nil {
		log.Printf("Token blacklist purge failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Purged %d expired blacklist entries", purged)
	}
}

func (m *Manager) cleanupOldNotifications() {
	deleted, err := m.notifications.DeleteOldRead(context.Background(), 90*24*time.Hour)
	if err != nil {
		log.Printf("Notification cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Deleted %d old read notifications", deleted)
	}
}
