package services

import (
	"context"

	"github.com/campusgate/admissions-api/model"
	"gorm.io/gorm"
)

// DashboardStats is the admin dashboard payload
type DashboardStats struct {
	TotalStudents        int64   `json:"total_students"`
	VerifiedStudents     int64   `json:"verified_students"`
	PendingVerifications int64   `json:"pending_verifications"`
	TotalUniversities    int64   `json:"total_universities"`
	VerifiedUniversities int64   `json:"verified_universities"`
	TotalPrograms        int64   `json:"total_programs"`
	ActivePrograms       int64   `json:"active_programs"`
	TotalApplications    int64   `json:"total_applications"`
	ApplicationsByStatus map[string]int64 `json:"applications_by_status"`
	TotalRevenue         float64 `json:"total_revenue"`
	CompletedPayments    int64   `json:"completed_payments"`
	AcceptanceRate       float64 `json:"acceptance_rate"`
}

// AnalyticsService computes aggregate counters for the admin dashboard
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

type statusCount struct {
	Status string
	Count  int64
}

// Dashboard gathers the admin overview counters. The acceptance rate is
// accepted over all decided applications (accepted + rejected).
func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{ApplicationsByStatus: map[string]int64{}}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalStudents, db.Model(&model.StudentProfile{})},
		{&stats.PendingVerifications, db.Model(&model.StudentProfile{}).
			Where("ssc_verification_status = ? OR hsc_verification_status = ?", model.CredentialPending, model.CredentialPending)},
		{&stats.TotalUniversities, db.Model(&model.University{})},
		{&stats.VerifiedUniversities, db.Model(&model.University{}).Where("is_verified = ?", true)},
		{&stats.TotalPrograms, db.Model(&model.Program{})},
		{&stats.ActivePrograms, db.Model(&model.Program{}).Where("is_active = ?", true)},
		{&stats.TotalApplications, db.Model(&model.Application{})},
		{&stats.CompletedPayments, db.Model(&model.Payment{}).Where("status = ?", model.PaymentCompleted)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Model(&model.StudentProfile{}).
		Where("ssc_verification_status = ? AND hsc_verification_status = ?", model.CredentialVerified, model.CredentialVerified).
		Count(&stats.VerifiedStudents).Error; err != nil {
		return nil, err
	}

	var byStatus []statusCount
	if err := db.Model(&model.Application{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, sc := range byStatus {
		stats.ApplicationsByStatus[sc.Status] = sc.Count
	}

	if err := db.Model(&model.Payment{}).
		Where("status = ?", model.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, err
	}

	accepted := stats.ApplicationsByStatus[model.ApplicationAccepted]
	decided := accepted + stats.ApplicationsByStatus[model.ApplicationRejected]
	if decided > 0 {
		stats.AcceptanceRate = float64(accepted) / float64(decided)
	}

	return stats, nil
}

// RevenueByUniversity returns completed payment totals grouped by
// university, highest first
func (s *AnalyticsService) RevenueByUniversity(ctx context.Context) ([]UniversityRevenue, error) {
	var rows []UniversityRevenue
	err := s.db.WithContext(ctx).Model(&model.Payment{}).
		Select("universities.id as university_id, universities.name as university_name, COALESCE(SUM(payments.amount), 0) as total_revenue, COUNT(payments.id) as payment_count").
		Joins("JOIN applications ON applications.id = payments.application_id").
		Joins("JOIN universities ON universities.id = applications.university_id").
		Where("payments.status = ?", model.PaymentCompleted).
		Group("universities.id, universities.name").
		Order("total_revenue DESC").
		Scan(&rows).Error
	return rows, err
}

// UniversityRevenue is one row of the revenue breakdown
type UniversityRevenue struct {
	UniversityID   uint    `json:"university_id"`
	UniversityName string  `json:"university_name"`
	TotalRevenue   float64 `json:"total_revenue"`
	PaymentCount   int64   `json:"payment_count"`
}
