package services

import (
	"context"
	"encoding/json"

	"github.com/campusgate/admissions-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEntry describes one admin action for the immutable log
type AuditEntry struct {
	AdminID     uint
	ActionType  string
	Description string
	TableName   string
	RecordID    uint
	OldValue    interface{}
	NewValue    interface{}
	IPAddress   string
}

// AuditService appends admin actions to the audit log. Entries are never
// updated or deleted.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// RecordTx appends an entry inside the caller's transaction
func (s *AuditService) RecordTx(tx *gorm.DB, entry AuditEntry) error {
	log := model.AdminLog{
		AdminID:     entry.AdminID,
		ActionType:  entry.ActionType,
		Description: entry.Description,
		TableName_:  entry.TableName,
		RecordID:    entry.RecordID,
		IPAddress:   entry.IPAddress,
	}

	if entry.OldValue != nil {
		raw, err := json.Marshal(entry.OldValue)
		if err != nil {
			return err
		}
		log.OldValue = datatypes.JSON(raw)
	}
	if entry.NewValue != nil {
		raw, err := json.Marshal(entry.NewValue)
		if err != nil {
			return err
		}
		log.NewValue = datatypes.JSON(raw)
	}

	return tx.Create(&log).Error
}

// Record appends a standalone entry
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) error {
	return s.RecordTx(s.db.WithContext(ctx), entry)
}

// List returns log entries newest first, optionally filtered by admin or
// action type
func (s *AuditService) List(ctx context.Context, adminID *uint, actionType string, limit, offset int) ([]model.AdminLog, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := s.db.WithContext(ctx).Model(&model.AdminLog{})
	if adminID != nil {
		query = query.Where("admin_id = ?", *adminID)
	}
	if actionType != "" {
		query = query.Where("action_type = ?", actionType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.AdminLog
	err := query.Preload("Admin").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&logs).Error
	return logs, total, err
}
