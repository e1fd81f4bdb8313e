package consts

const (
	// Reconciliation type PIX bank statement against customer subscriptions
	ReconciliationTypePixStatement = 1

	// Reconciliation status codes
	StatusInit     = 1
	StatusRunning  = 2
	StatusFinished = 3
	StatusFailed   = 4

	// Default config
	DefaultLookbackDays     = 30
	MaxLookbackDays         = 365
	DedupWindowDays         = 90
	DefaultDueDay           = 10
	MaxDueDay               = 28
	DefaultIntervalInSec    = 3600
	DefaultWorkerNumber     = 1
	DefaultLockTTLInSec     = 600
	DefaultHTTPTimeoutInSec = 30

	// Run lock key shared by the HTTP trigger and the cron worker
	BankSyncLockKey = "reconciliation:bank-sync"

	// Operator recorded on process logs created by the cron worker
	OperatorSystem = "system"

	DateLayout = "2006-01-02"
)
