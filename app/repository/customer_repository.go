package repository

import (
	"github.com/lnking/lnking/app/models"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a customer repository backed by GORM.
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) ListByWorkspace(workspaceID string) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.Where("workspace_id = ?", workspaceID).Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepository) CountByWorkspace(workspaceID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).Where("workspace_id = ?", workspaceID).Count(&count).Error
	return count, err
}
