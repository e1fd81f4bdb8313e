package dao

import (
	"context"
	"time"

	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/infra/db/model"

	"github.com/jinzhu/gorm"
)

type DaoMethod interface {
	// matched payments
	LoadRecent(ctx context.Context, windowStart, windowEnd time.Time) (*entity.ReconciliationWindow, error)
	Append(ctx context.Context, payment entity.MatchedPayment) error
	ListPayments(ctx context.Context, filter entity.PaymentFilter) ([]entity.MatchedPayment, error)

	// customers
	ListActive(ctx context.Context) ([]entity.Customer, error)
	ListCustomers(ctx context.Context) ([]entity.Customer, error)
	GetCustomer(ctx context.Context, id string) (entity.Customer, error)
	CreateCustomer(ctx context.Context, customer entity.Customer) (entity.Customer, error)
	UpdateCustomer(ctx context.Context, id string, update entity.CustomerUpdate) (entity.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	// process logs
	GetReconciliationProcessLog() ([]model.ReconciliationProcessLog, error)
	GetReconciliationProcessLogByStatusList(statusList []int) ([]model.ReconciliationProcessLog, error)
	CreateReconciliationProcessLog(payload *model.ReconciliationProcessLog) error
	GetReconciliationProcessLogByID(logID int64) (model.ReconciliationProcessLog, error)
	UpdateReconciliationProcessLog(logEntry model.ReconciliationProcessLog) error
}

type dao struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDaoMethod(db *gorm.DB) DaoMethod {
	return &dao{db: db, now: time.Now}
}

// AutoMigrate creates or updates the tables owned by this package.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Customer{},
		&model.MatchedPayment{},
		&model.ReconciliationProcessLog{},
	).Error
}
