package repository

import "github.com/lnking/lnking/app/models"

// WorkspaceRepository provides workspace lookups for the request-serving
// layer. Entitlement writes go through the billing service instead.
type WorkspaceRepository interface {
	GetByID(id string) (*models.Workspace, error)
	GetBySlug(slug string) (*models.Workspace, error)
}

// CustomerRepository provides read access to workspace customers.
type CustomerRepository interface {
	ListByWorkspace(workspaceID string) ([]models.Customer, error)
	CountByWorkspace(workspaceID string) (int64, error)
}
