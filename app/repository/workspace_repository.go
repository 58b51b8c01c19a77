package repository

import (
	"github.com/lnking/lnking/app/models"
	"gorm.io/gorm"
)

type workspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a workspace repository backed by GORM.
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

func (r *workspaceRepository) GetByID(id string) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.Where("id = ?", id).First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *workspaceRepository) GetBySlug(slug string) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.Where("slug = ?", slug).First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}
