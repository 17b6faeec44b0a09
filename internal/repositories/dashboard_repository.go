package repositories

import (
	"errors"

	"agencia_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDashboardNotFound = errors.New("dashboard not found")

type DashboardRepository interface {
	Upsert(db *gorm.DB, dashboard *models.ClientDashboard) error
	FindByClientAndPeriod(db *gorm.DB, clientID, period string) (*models.ClientDashboard, error)
	FindLatestByClient(db *gorm.DB, clientID string) (*models.ClientDashboard, error)
	ListPeriods(db *gorm.DB, clientID string) ([]string, error)
}

type dashboardRepository struct{}

func NewDashboardRepository() DashboardRepository {
	return &dashboardRepository{}
}

// Upsert overwrites the report for (client_id, report_period) if one exists.
func (r *dashboardRepository) Upsert(db *gorm.DB, dashboard *models.ClientDashboard) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "client_id"}, {Name: "report_period"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"metrics", "chart_data", "recommendations", "updated_at",
		}),
	}).Create(dashboard).Error
}

func (r *dashboardRepository) FindByClientAndPeriod(db *gorm.DB, clientID, period string) (*models.ClientDashboard, error) {
	var dashboard models.ClientDashboard
	err := db.Where("client_id = ? AND report_period = ?", clientID, period).First(&dashboard).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDashboardNotFound
		}
		return nil, err
	}
	return &dashboard, nil
}

func (r *dashboardRepository) FindLatestByClient(db *gorm.DB, clientID string) (*models.ClientDashboard, error) {
	var dashboard models.ClientDashboard
	err := db.Where("client_id = ?", clientID).
		Order("report_period DESC").
		First(&dashboard).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDashboardNotFound
		}
		return nil, err
	}
	return &dashboard, nil
}

func (r *dashboardRepository) ListPeriods(db *gorm.DB, clientID string) ([]string, error) {
	var periods []string
	err := db.Model(&models.ClientDashboard{}).
		Where("client_id = ?", clientID).
		Order("report_period DESC").
		Pluck("report_period", &periods).Error
	return periods, err
}
