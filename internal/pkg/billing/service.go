package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/lnking/lnking/app/models"
	"github.com/lnking/lnking/internal/pkg/analytics"
	"github.com/lnking/lnking/internal/pkg/entitlements"
	"github.com/lnking/lnking/internal/pkg/notify"
	"github.com/lnking/lnking/internal/pkg/webhookout"
	"gorm.io/gorm"
)

const paymentProcessor = "flutterwave"

// Service is the webhook reconciliation engine. It turns verified provider
// notifications into entitlement transitions and exactly-once downstream
// side effects.
//
// Lookup misses (unknown workspace, malformed reference, unknown event kind,
// already-processed event) resolve to nil errors: providers interpret non-2xx
// as "retry", and none of those conditions can succeed on redelivery. Only
// infrastructure failures propagate.
type Service struct {
	repo      Repository
	guard     ProcessedEventGuard
	plans     *entitlements.Table
	analytics analytics.Recorder
	webhooks  webhookout.Sender
	tasks     notify.TaskRunner

	// Entitlement writes are resolve-then-write and would lose updates if two
	// notifications for one workspace raced; writes are serialized per
	// workspace instead. Serialization only holds across requests when all of
	// them go through the shared instance (InitializeService/GetService).
	// Entries stay in the map for the process lifetime.
	mu      sync.Mutex
	wsLocks map[string]*sync.Mutex
}

// NewService assembles the engine from injected collaborators.
func NewService(
	repo Repository,
	guard ProcessedEventGuard,
	plans *entitlements.Table,
	recorder analytics.Recorder,
	webhooks webhookout.Sender,
	tasks notify.TaskRunner,
) *Service {
	return &Service{
		repo:      repo,
		guard:     guard,
		plans:     plans,
		analytics: recorder,
		webhooks:  webhooks,
		tasks:     tasks,
		wsLocks:   make(map[string]*sync.Mutex),
	}
}

// NewServiceFromDB wires the engine with its production collaborators.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(
		NewRepository(db),
		NewRedisGuard(),
		entitlements.NewTable(),
		analytics.NewTinybirdClientFromEnv(),
		webhookout.NewDispatcher(),
		notify.Default(),
	)
}

var (
	defaultService *Service
	serviceOnce    sync.Once
)

// InitializeService wires the shared engine instance at startup. All request
// handlers must reconcile through this one instance: the per-workspace write
// locks live inside it.
func InitializeService(db *gorm.DB) {
	serviceOnce.Do(func() {
		defaultService = NewServiceFromDB(db)
	})
}

// GetService returns the shared engine instance.
func GetService() *Service {
	if defaultService == nil {
		panic("Billing service not initialized. Call InitializeService first.")
	}
	return defaultService
}

// Reconcile dispatches one parsed notification by event kind.
func (s *Service) Reconcile(ctx context.Context, event NotificationEvent) error {
	switch event.Kind {
	case EventChargeCompleted:
		return s.handleChargeCompleted(ctx, event.Data)
	case EventSubscriptionCancelled, EventSubscriptionDisabled:
		return s.handleSubscriptionTerminated(ctx, event.Data)
	case EventSubscriptionCreated:
		// Checkout charges already carry the entitlement transition; no
		// reconciliation is defined for this event.
		log.Infof("[Billing] subscription.created received for tx_ref %s, nothing to do", event.Data.TxRef)
		return nil
	default:
		log.Infof("[Billing] ignoring unhandled webhook event kind")
		return nil
	}
}

func (s *Service) handleChargeCompleted(ctx context.Context, data WebhookData) error {
	ref, err := DecodeTxRef(data.TxRef)
	if err != nil {
		log.Infof("[Billing] ignoring charge with malformed tx_ref %q: %v", data.TxRef, err)
		return nil
	}

	lock := s.workspaceLock(ref.WorkspaceID)
	lock.Lock()
	defer lock.Unlock()

	workspace, err := s.repo.GetWorkspaceByID(ref.WorkspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The workspace cannot appear later for a webhook already in
			// flight, so redelivery would never succeed either.
			log.Infof("[Billing] ignoring charge for unknown workspace %s", ref.WorkspaceID)
			return nil
		}
		return fmt.Errorf("workspace lookup failed: %w", err)
	}

	customer, createdCustomer, err := s.upsertCustomer(workspace.ID, data.Customer)
	if err != nil {
		return fmt.Errorf("customer upsert failed: %w", err)
	}

	patch, err := s.plans.ApplyPlan(ref.PlanName, data.FlwRef, time.Now())
	if err != nil {
		log.Infof("[Billing] ignoring charge with unknown plan %q in tx_ref %q", ref.PlanName, data.TxRef)
		return nil
	}
	if err := s.repo.ApplyWorkspacePatch(workspace.ID, patch); err != nil {
		return fmt.Errorf("entitlement update failed: %w", err)
	}

	// The entitlement write above is overwriting and safe to repeat; the
	// analytics and webhook side effects below are not.
	fresh, err := s.guard.Acquire(ctx, data.FlwRef)
	if err != nil {
		return err
	}
	if !fresh {
		log.Infof("[Billing] charge %s already processed, skipping side effects", data.FlwRef)
		return nil
	}

	s.emitChargeEffects(workspace, customer, createdCustomer, ref, data)
	return nil
}

func (s *Service) handleSubscriptionTerminated(ctx context.Context, data WebhookData) error {
	_ = ctx
	workspace, err := s.repo.GetWorkspaceBySubscriptionID(data.FlwRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Infof("[Billing] ignoring cancellation for unknown subscription %s", data.FlwRef)
			return nil
		}
		return fmt.Errorf("workspace lookup by subscription failed: %w", err)
	}

	// Downgrading twice yields the same state, so no guard is needed here.
	return s.DowngradeWorkspace(workspace.ID)
}

// DowngradeWorkspace applies the free-tier patch unconditionally. Also used
// by the cancellation endpoint after a successful provider cancel RPC.
func (s *Service) DowngradeWorkspace(workspaceID string) error {
	lock := s.workspaceLock(workspaceID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.ApplyWorkspacePatch(workspaceID, s.plans.FreePatch()); err != nil {
		return fmt.Errorf("downgrade failed: %w", err)
	}
	log.Infof("[Billing] workspace %s downgraded to free", workspaceID)
	return nil
}

func (s *Service) upsertCustomer(workspaceID string, wc WebhookCustomer) (*models.Customer, bool, error) {
	existing, err := s.repo.FindCustomer(workspaceID, wc.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	created := false
	customer := existing
	if customer == nil {
		customer = &models.Customer{
			ID:          models.NewCustomerID(),
			WorkspaceID: workspaceID,
		}
		created = true
	}
	customer.Name = wc.Name
	customer.Email = wc.Email
	customer.ExternalID = wc.Email

	if err := s.repo.SaveCustomer(customer); err != nil {
		return nil, false, err
	}
	return customer, created, nil
}

// emitChargeEffects enqueues the analytics records and merchant webhooks for
// a freshly processed charge. The tasks run after the HTTP response is
// released; their failures are logged by the runner, never surfaced.
func (s *Service) emitChargeEffects(
	workspace *models.Workspace,
	customer *models.Customer,
	newCustomer bool,
	ref TransactionReference,
	data WebhookData,
) {
	metadata, _ := json.Marshal(map[string]string{
		"tx_ref":   data.TxRef,
		"flw_ref":  data.FlwRef,
		"planName": ref.PlanName,
		"interval": ref.Interval,
	})

	eventName := analytics.EventNameMonthlySubscription
	if ref.Interval == "yearly" {
		eventName = analytics.EventNameYearlySubscription
	}

	sale := analytics.Event{
		EventID:          analytics.NewEventID(),
		EventName:        eventName,
		Timestamp:        analytics.Now(),
		CustomerID:       customer.ID,
		PaymentProcessor: paymentProcessor,
		Amount:           data.Amount,
		Currency:         data.Currency,
		InvoiceID:        data.FlwRef,
		Metadata:         string(metadata),
	}

	s.tasks.Enqueue("analytics.sale", func(ctx context.Context) error {
		return s.analytics.RecordSale(ctx, sale)
	})

	var lead analytics.Event
	if newCustomer {
		lead = sale
		lead.EventID = analytics.NewEventID()
		lead.EventName = analytics.EventNameSignUp
		s.tasks.Enqueue("analytics.lead", func(ctx context.Context) error {
			return s.analytics.RecordLead(ctx, lead)
		})
	}

	if workspace.WebhookURL == "" {
		return
	}
	endpoint, secret := workspace.WebhookURL, workspace.WebhookSecret
	s.tasks.Enqueue("webhook.sale.created", func(ctx context.Context) error {
		return s.webhooks.Send(ctx, endpoint, secret, webhookout.TriggerSaleCreated, sale)
	})
	if newCustomer {
		s.tasks.Enqueue("webhook.lead.created", func(ctx context.Context) error {
			return s.webhooks.Send(ctx, endpoint, secret, webhookout.TriggerLeadCreated, lead)
		})
	}
}

func (s *Service) workspaceLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.wsLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.wsLocks[id] = lock
	}
	return lock
}
