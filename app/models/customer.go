package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Customer is a paying end user of a workspace. The email doubles as the
// external identifier, and at most one customer exists per (workspace, email)
// pair.
type Customer struct {
	ID          string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	WorkspaceID string    `gorm:"type:varchar(32);not null;index:ux_customers_workspace_email,unique,priority:1" json:"workspace_id"`
	Email       string    `gorm:"type:varchar(200);not null;index:ux_customers_workspace_email,unique,priority:2" json:"email"`
	ExternalID  string    `gorm:"type:varchar(200);not null;index" json:"external_id"`
	Name        string    `gorm:"type:varchar(190);default:''" json:"name"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewCustomerID issues a fresh prefixed customer identifier.
func NewCustomerID() string {
	return fmt.Sprintf("cus_%s", uuid.NewString())
}
