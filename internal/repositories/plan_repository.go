package repositories

import (
	"errors"
	"time"

	"agencia_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPlanNotFound = errors.New("user plan not found")

type PlanRepository interface {
	Upsert(db *gorm.DB, plan *models.UserPlan) error
	FindByUserID(db *gorm.DB, userID string) (*models.UserPlan, error)
	FindBySubscriptionID(db *gorm.DB, subscriptionID string) (*models.UserPlan, error)
	UpdateStatusByUserID(db *gorm.DB, userID string, status models.PlanStatus) error
	UpdateStatusBySubscriptionID(db *gorm.DB, subscriptionID string, status models.PlanStatus) error
	UpdateFieldsByUserID(db *gorm.DB, userID string, fields map[string]interface{}) error
	Save(db *gorm.DB, plan *models.UserPlan) error
}

type planRepository struct{}

func NewPlanRepository() PlanRepository {
	return &planRepository{}
}

// Upsert writes the full row keyed on user_id. Replays of the same webhook
// land on the conflict path and overwrite with identical values.
func (r *planRepository) Upsert(db *gorm.DB, plan *models.UserPlan) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan_name", "plan_tier", "billing_type", "price", "currency",
			"status", "subscription_id", "subscription_start", "subscription_end",
			"billing_frequency", "billing_period", "updated_at",
		}),
	}).Create(plan).Error
}

func (r *planRepository) FindByUserID(db *gorm.DB, userID string) (*models.UserPlan, error) {
	var plan models.UserPlan
	err := db.Where("user_id = ?", userID).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) FindBySubscriptionID(db *gorm.DB, subscriptionID string) (*models.UserPlan, error) {
	var plan models.UserPlan
	err := db.Where("subscription_id = ?", subscriptionID).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) UpdateStatusByUserID(db *gorm.DB, userID string, status models.PlanStatus) error {
	result := db.Model(&models.UserPlan{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *planRepository) UpdateStatusBySubscriptionID(db *gorm.DB, subscriptionID string, status models.PlanStatus) error {
	result := db.Model(&models.UserPlan{}).Where("subscription_id = ?", subscriptionID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *planRepository) UpdateFieldsByUserID(db *gorm.DB, userID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := db.Model(&models.UserPlan{}).Where("user_id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *planRepository) Save(db *gorm.DB, plan *models.UserPlan) error {
	return db.Save(plan).Error
}
