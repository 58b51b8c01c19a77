package models

import "time"

// Plan name constants shared across billing and entitlements.
const (
	PlanFree          = "free"
	PlanPro           = "pro"
	PlanBusiness      = "business"
	PlanBusinessPlus  = "businessplus"
	PlanBusinessExtra = "businessextra"
	PlanBusinessMax   = "businessmax"
)

// Workspace is the billable tenant. It exists before any webhook arrives
// (created at signup) and is only ever mutated through entitlement patches;
// the reconciliation engine never deletes it.
type Workspace struct {
	ID   string `gorm:"type:varchar(32);primaryKey" json:"id"`
	Name string `gorm:"type:varchar(190);not null" json:"name"`
	Slug string `gorm:"type:varchar(190);not null;uniqueIndex" json:"slug"`

	Plan                      string `gorm:"type:varchar(50);not null;default:'free';index" json:"plan"`
	FlutterwaveSubscriptionID string `gorm:"type:varchar(191);default:'';index" json:"flutterwave_subscription_id"`
	BillingCycleStart         int    `gorm:"not null;default:1" json:"billing_cycle_start"`

	UsageLimit   int64 `gorm:"not null;default:1000" json:"usage_limit"`
	LinksLimit   int64 `gorm:"not null;default:25" json:"links_limit"`
	DomainsLimit int64 `gorm:"not null;default:3" json:"domains_limit"`
	TagsLimit    int64 `gorm:"not null;default:5" json:"tags_limit"`
	FoldersLimit int64 `gorm:"not null;default:0" json:"folders_limit"`
	UsersLimit   int64 `gorm:"not null;default:1" json:"users_limit"`
	AILimit      int64 `gorm:"not null;default:10" json:"ai_limit"`
	SalesLimit   int64 `gorm:"not null;default:0" json:"sales_limit"`

	// Outbound merchant webhook endpoint. Empty URL disables delivery.
	WebhookURL    string `gorm:"type:varchar(500);default:''" json:"webhook_url"`
	WebhookSecret string `gorm:"type:varchar(191);default:''" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
