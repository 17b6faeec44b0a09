package services

import (
	"agencia_backend/internal/models"
	"agencia_backend/internal/repositories"
	"agencia_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type DashboardService interface {
	Upsert(db *gorm.DB, req *models.UpsertDashboardRequest) (*models.ClientDashboard, error)
	GetForClient(db *gorm.DB, clientID, period string) (*models.ClientDashboard, error)
	ListPeriods(db *gorm.DB, clientID string) ([]string, error)
}

type dashboardService struct {
	dashboardRepo repositories.DashboardRepository
	userRepo      repositories.UserRepository
}

func NewDashboardService(dashboardRepo repositories.DashboardRepository, userRepo repositories.UserRepository) DashboardService {
	return &dashboardService{dashboardRepo: dashboardRepo, userRepo: userRepo}
}

func (s *dashboardService) Upsert(db *gorm.DB, req *models.UpsertDashboardRequest) (*models.ClientDashboard, error) {
	if _, err := s.userRepo.FindByID(db, req.ClientID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	dashboard := &models.ClientDashboard{
		ClientID:        req.ClientID,
		ReportPeriod:    req.ReportPeriod,
		Metrics:         req.Metrics,
		ChartData:       req.ChartData,
		Recommendations: req.Recommendations,
	}

	if err := s.dashboardRepo.Upsert(db, dashboard); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return dashboard, nil
}

// GetForClient returns the report for the period, or the latest one when the
// period is empty.
func (s *dashboardService) GetForClient(db *gorm.DB, clientID, period string) (*models.ClientDashboard, error) {
	var dashboard *models.ClientDashboard
	var err error
	if period == "" {
		dashboard, err = s.dashboardRepo.FindLatestByClient(db, clientID)
	} else {
		dashboard, err = s.dashboardRepo.FindByClientAndPeriod(db, clientID, period)
	}
	if err != nil {
		if apperrors.Is(err, repositories.ErrDashboardNotFound) {
			return nil, apperrors.ErrDashboardNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return dashboard, nil
}

func (s *dashboardService) ListPeriods(db *gorm.DB, clientID string) ([]string, error) {
	periods, err := s.dashboardRepo.ListPeriods(db, clientID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return periods, nil
}
