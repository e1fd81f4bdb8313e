package reconciliation

import (
	"context"
	"time"

	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/infra/db/model"
	"github.com/radhian/pix-reconciliation/infra/locker"
	"github.com/radhian/pix-reconciliation/infra/metrics"
)

// StatementSource yields the bank statement entries of the last lookbackDays.
type StatementSource interface {
	FetchEntries(ctx context.Context, lookbackDays int) ([]entity.StatementEntry, error)
}

// CredentialChecker is implemented by statement sources that can tell from
// local state alone whether their credentials are provisioned. Runs check it
// before taking the lock or writing the run log.
type CredentialChecker interface {
	CheckCredentials() error
}

// CustomerDirectory lists the customers eligible for matching, in the order
// used to break ties between customers with the same name and amount.
type CustomerDirectory interface {
	ListActive(ctx context.Context) ([]entity.Customer, error)
}

type LedgerGateway interface {
	LoadRecent(ctx context.Context, windowStart, windowEnd time.Time) (*entity.ReconciliationWindow, error)
	Append(ctx context.Context, payment entity.MatchedPayment) error
}

// RunLogStore keeps the history of runs. Stores that keep no history leave it nil.
type RunLogStore interface {
	GetReconciliationProcessLog() ([]model.ReconciliationProcessLog, error)
	GetReconciliationProcessLogByStatusList(statusList []int) ([]model.ReconciliationProcessLog, error)
	CreateReconciliationProcessLog(payload *model.ReconciliationProcessLog) error
	GetReconciliationProcessLogByID(logID int64) (model.ReconciliationProcessLog, error)
	UpdateReconciliationProcessLog(logEntry model.ReconciliationProcessLog) error
}

type ReconciliationUsecase interface {
	RunReconciliation(ctx context.Context, lookbackDays int, operator string) (entity.RunSummary, error)
	GetReconciliationResults() ([]model.ReconciliationProcessLog, error)
	GetReconciliationResult(logID int64) (model.ReconciliationProcessLog, error)
	FailStaleRuns(operator string) (int, error)
	KeepsHistory() bool
}

type Dependencies struct {
	Statement StatementSource
	Customers CustomerDirectory
	Ledger    LedgerGateway
	RunLogs   RunLogStore
	Locker    locker.RunLocker
	Metrics   *metrics.Recorder
}

type reconciliationUsecase struct {
	statement StatementSource
	customers CustomerDirectory
	ledger    LedgerGateway
	runLogs   RunLogStore
	locker    locker.RunLocker
	metrics   *metrics.Recorder
	engine    *Engine
	now       func() time.Time
}

func NewReconciliationUsecase(deps Dependencies) ReconciliationUsecase {
	return &reconciliationUsecase{
		statement: deps.Statement,
		customers: deps.Customers,
		ledger:    deps.Ledger,
		runLogs:   deps.RunLogs,
		locker:    deps.Locker,
		metrics:   deps.Metrics,
		engine:    NewEngine(deps.Ledger),
		now:       time.Now,
	}
}

func (u *reconciliationUsecase) KeepsHistory() bool {
	return u.runLogs != nil
}
