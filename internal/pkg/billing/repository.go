package billing

import (
	"github.com/lnking/lnking/app/models"
	"github.com/lnking/lnking/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// Repository provides the DB operations used by the reconciliation service.
type Repository interface {
	GetWorkspaceByID(id string) (*models.Workspace, error)
	GetWorkspaceBySubscriptionID(flutterwaveRef string) (*models.Workspace, error)
	FindCustomer(workspaceID, emailOrExternalID string) (*models.Customer, error)
	SaveCustomer(customer *models.Customer) error
	ApplyWorkspacePatch(workspaceID string, patch entitlements.WorkspacePatch) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetWorkspaceByID(id string) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.Where("id = ?", id).First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *gormRepository) GetWorkspaceBySubscriptionID(flutterwaveRef string) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.Where("flutterwave_subscription_id = ?", flutterwaveRef).First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *gormRepository) FindCustomer(workspaceID, emailOrExternalID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.
		Where("workspace_id = ? AND (email = ? OR external_id = ?)", workspaceID, emailOrExternalID, emailOrExternalID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *gormRepository) SaveCustomer(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

func (r *gormRepository) ApplyWorkspacePatch(workspaceID string, patch entitlements.WorkspacePatch) error {
	updates := map[string]interface{}{
		"plan":          patch.Plan,
		"usage_limit":   patch.Limits.Usage,
		"links_limit":   patch.Limits.Links,
		"domains_limit": patch.Limits.Domains,
		"tags_limit":    patch.Limits.Tags,
		"folders_limit": patch.Limits.Folders,
		"users_limit":   patch.Limits.Users,
		"ai_limit":      patch.Limits.AI,
		"sales_limit":   patch.Limits.Sales,
	}
	if patch.FlutterwaveSubscriptionID != nil {
		updates["flutterwave_subscription_id"] = *patch.FlutterwaveSubscriptionID
	}
	if patch.BillingCycleStart != nil {
		updates["billing_cycle_start"] = *patch.BillingCycleStart
	}
	return r.db.Model(&models.Workspace{}).Where("id = ?", workspaceID).Updates(updates).Error
}
