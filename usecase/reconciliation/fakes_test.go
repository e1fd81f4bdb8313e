package reconciliation

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/infra/db/model"
)

type fakeStatement struct {
	entries       []entity.StatementEntry
	err           error
	credentialErr error
	calls         int
	days          int
}

func (f *fakeStatement) CheckCredentials() error {
	return f.credentialErr
}

func (f *fakeStatement) FetchEntries(ctx context.Context, lookbackDays int) ([]entity.StatementEntry, error) {
	f.calls++
	f.days = lookbackDays
	return f.entries, f.err
}

type fakeDirectory struct {
	customers []entity.Customer
	err       error
	calls     int
}

func (f *fakeDirectory) ListActive(ctx context.Context) ([]entity.Customer, error) {
	f.calls++
	return f.customers, f.err
}

// fakeLedger keeps payments in memory. appendErr, when set, decides the
// result of each Append before the payment is stored.
type fakeLedger struct {
	mu          sync.Mutex
	payments    []entity.MatchedPayment
	loadErr     error
	appendErr   func(p entity.MatchedPayment) error
	loadCalls   int
	appendCalls int
	window      [2]time.Time
}

func (f *fakeLedger) LoadRecent(ctx context.Context, windowStart, windowEnd time.Time) (*entity.ReconciliationWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls++
	f.window = [2]time.Time{windowStart, windowEnd}
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	w := entity.NewReconciliationWindow(windowStart, windowEnd)
	for _, p := range f.payments {
		if p.PaidOn.Before(windowStart) || p.PaidOn.After(windowEnd) {
			continue
		}
		w.Record(p.CustomerID, p.PaidOn, p.ExternalHash)
	}
	return w, nil
}

func (f *fakeLedger) Append(ctx context.Context, payment entity.MatchedPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCalls++
	if f.appendErr != nil {
		if err := f.appendErr(payment); err != nil {
			return err
		}
	}
	f.payments = append(f.payments, payment)
	return nil
}

type fakeRunLogs struct {
	logs      map[int64]model.ReconciliationProcessLog
	nextID    int64
	createErr error
}

func newFakeRunLogs() *fakeRunLogs {
	return &fakeRunLogs{logs: make(map[int64]model.ReconciliationProcessLog)}
}

func (f *fakeRunLogs) GetReconciliationProcessLog() ([]model.ReconciliationProcessLog, error) {
	out := make([]model.ReconciliationProcessLog, 0, len(f.logs))
	for id := f.nextID; id > 0; id-- {
		if l, ok := f.logs[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRunLogs) GetReconciliationProcessLogByStatusList(statusList []int) ([]model.ReconciliationProcessLog, error) {
	var out []model.ReconciliationProcessLog
	for id := int64(1); id <= f.nextID; id++ {
		l, ok := f.logs[id]
		if !ok {
			continue
		}
		for _, s := range statusList {
			if l.Status == s {
				out = append(out, l)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRunLogs) CreateReconciliationProcessLog(payload *model.ReconciliationProcessLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	payload.ID = f.nextID
	f.logs[payload.ID] = *payload
	return nil
}

func (f *fakeRunLogs) GetReconciliationProcessLogByID(logID int64) (model.ReconciliationProcessLog, error) {
	l, ok := f.logs[logID]
	if !ok {
		return l, entity.ErrNotFound
	}
	return l, nil
}

func (f *fakeRunLogs) UpdateReconciliationProcessLog(logEntry model.ReconciliationProcessLog) error {
	f.logs[logEntry.ID] = logEntry
	return nil
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amount(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: money(s), Valid: true}
}

func pixEntry(value, description, date, hash string) entity.StatementEntry {
	return entity.StatementEntry{
		Description:  description,
		Amount:       amount(value),
		OccurredOn:   date,
		ExternalHash: hash,
		IsPixCredit:  true,
	}
}

func customer(id, name, expected string) entity.Customer {
	return entity.Customer{ID: id, Name: name, ExpectedAmount: money(expected), DueDay: 10, Active: true}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
