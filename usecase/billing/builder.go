// Package billing manages customers and derives the back-office views over
// matched payments: customer payment status, dashboard figures and the
// accounting export.
package billing

import (
	"context"
	"io"
	"time"

	"github.com/radhian/pix-reconciliation/entity"
)

type PaymentReader interface {
	ListPayments(ctx context.Context, filter entity.PaymentFilter) ([]entity.MatchedPayment, error)
}

type CustomerReader interface {
	ListActive(ctx context.Context) ([]entity.Customer, error)
	ListCustomers(ctx context.Context) ([]entity.Customer, error)
}

// CustomerStore adds customer maintenance to CustomerReader. GetCustomer and
// UpdateCustomer return entity.ErrNotFound for an unknown id.
type CustomerStore interface {
	CustomerReader
	GetCustomer(ctx context.Context, id string) (entity.Customer, error)
	CreateCustomer(ctx context.Context, customer entity.Customer) (entity.Customer, error)
	UpdateCustomer(ctx context.Context, id string, update entity.CustomerUpdate) (entity.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type BillingUsecase interface {
	ListCustomerStatuses(ctx context.Context) ([]entity.CustomerStatus, error)
	GetCustomer(ctx context.Context, id string) (entity.CustomerStatus, error)
	CreateCustomer(ctx context.Context, in entity.CustomerCreate) (entity.CustomerStatus, error)
	UpdateCustomer(ctx context.Context, id string, update entity.CustomerUpdate) (entity.CustomerStatus, error)
	DeleteCustomer(ctx context.Context, id string) error
	GetDashboard(ctx context.Context) (entity.Dashboard, error)
	ExportAccounting(ctx context.Context, w io.Writer) error
}

type billingUsecase struct {
	payments  PaymentReader
	customers CustomerStore
	now       func() time.Time
}

func NewBillingUsecase(payments PaymentReader, customers CustomerStore) BillingUsecase {
	return &billingUsecase{payments: payments, customers: customers, now: time.Now}
}
