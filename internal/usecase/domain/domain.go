package domain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/hikvision"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/notify"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/razorpay"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentGateway is the subset of the Razorpay client used by checkout.
type PaymentGateway interface {
	KeyID() string
	Configured() bool
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) error
	VerifyWebhookSignature(body []byte, signature string) error
}

// AccessClient is the subset of the Hikvision client used by integrations.
type AccessClient interface {
	Token(ctx context.Context) (string, error)
	AllDevices(ctx context.Context) ([]hikvision.Device, error)
	RemoteControlDoor(ctx context.Context, doorID string, cmd hikvision.DoorCommand) error
	AddPerson(ctx context.Context, p hikvision.Person) (string, error)
	UpdatePerson(ctx context.Context, p hikvision.Person) error
}

// AccessClientFunc returns a client bound to a branch's credentials.
type AccessClientFunc func(creds hikvision.Credentials) AccessClient

// Billing holds pricing defaults.
type Billing struct {
	Currency       string
	TaxRate        decimal.Decimal
	ReferralReward decimal.Decimal
	ReminderDays   int
}

// Deps are the external collaborators of the usecase layer.
type Deps struct {
	Payments       PaymentGateway
	AccessControl  AccessClientFunc
	Publisher      notify.Publisher
	Billing        Billing
	VendorTimeout  time.Duration
	ExpiryInterval time.Duration
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx           context.Context
	log           *zap.SugaredLogger
	repo          repository.Repository
	timeout       time.Duration
	vendorTimeout time.Duration
	interval      time.Duration
	payments      PaymentGateway
	access        AccessClientFunc
	publisher     notify.Publisher
	billing       Billing
	now           func() time.Time
	bg            sync.WaitGroup
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	timeout time.Duration,
	deps Deps,
) *Usecase {
	if deps.Publisher == nil {
		deps.Publisher = notify.NewLogPublisher(log)
	}
	if deps.Billing.Currency == "" {
		deps.Billing.Currency = "INR"
	}
	if deps.VendorTimeout <= 0 {
		deps.VendorTimeout = timeout
	}
	if deps.ExpiryInterval <= 0 {
		deps.ExpiryInterval = time.Hour
	}
	if deps.Billing.ReminderDays <= 0 {
		deps.Billing.ReminderDays = 3
	}
	return &Usecase{
		ctx:           ctx,
		log:           log.Named("usecase"),
		repo:          repo,
		timeout:       timeout,
		vendorTimeout: deps.VendorTimeout,
		interval:      deps.ExpiryInterval,
		payments:      deps.Payments,
		access:        deps.AccessControl,
		publisher:     deps.Publisher,
		billing:       deps.Billing,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func requireRole(actor entities.Actor, roles ...entities.Role) error {
	if !actor.HasRole(roles...) {
		return fmt.Errorf("%w: role %q not allowed", entities.ErrForbidden, actor.Role)
	}
	return nil
}

func requireAdmin(actor entities.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", entities.ErrForbidden)
	}
	return nil
}

func requireBranch(actor entities.Actor, branchID uuid.UUID) error {
	if branchID == uuid.Nil {
		return fmt.Errorf("%w: branch_id is required", entities.ErrInvalidArgument)
	}
	if !actor.CanAccessBranch(branchID) {
		return fmt.Errorf("%w: branch %s is outside your scope", entities.ErrForbidden, branchID)
	}
	return nil
}

func requireID(id uuid.UUID, name string) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: %s is required", entities.ErrInvalidArgument, name)
	}
	return nil
}

// scope restricts a list filter to the branches the actor may see.
func scope(actor entities.Actor, f entities.ListFilter) (entities.ListFilter, error) {
	branchID, err := actor.ScopeBranch(f.BranchID)
	if err != nil {
		return f, err
	}
	f.BranchID = branchID
	return f.Normalize(), nil
}

// Roles allowed to run branch operations.
var (
	frontDesk = []entities.Role{entities.RoleManager, entities.RoleStaff}
	managers  = []entities.Role{entities.RoleManager}
	coaching  = []entities.Role{entities.RoleManager, entities.RoleStaff, entities.RoleTrainer}
)
