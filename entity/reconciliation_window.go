package entity

import "time"

// PaymentKey identifies the (customer, calendar day) pair of a recorded payment.
type PaymentKey struct {
	CustomerID string
	PaidOn     string // YYYY-MM-DD
}

func NewPaymentKey(customerID string, paidOn time.Time) PaymentKey {
	return PaymentKey{CustomerID: customerID, PaidOn: paidOn.Format("2006-01-02")}
}

// ReconciliationWindow is the dedup state loaded from the ledger for one run.
// It is mutated by the engine as matches are recorded and is not safe for
// concurrent use.
type ReconciliationWindow struct {
	Start         time.Time
	End           time.Time
	ExistingPairs map[PaymentKey]struct{}
	UsedHashes    map[string]struct{}
}

func NewReconciliationWindow(start, end time.Time) *ReconciliationWindow {
	return &ReconciliationWindow{
		Start:         start,
		End:           end,
		ExistingPairs: make(map[PaymentKey]struct{}),
		UsedHashes:    make(map[string]struct{}),
	}
}

func (w *ReconciliationWindow) HasPair(customerID string, paidOn time.Time) bool {
	_, ok := w.ExistingPairs[NewPaymentKey(customerID, paidOn)]
	return ok
}

// HashUsed reports whether a non-empty hash was already recorded.
func (w *ReconciliationWindow) HashUsed(hash string) bool {
	if hash == "" {
		return false
	}
	_, ok := w.UsedHashes[hash]
	return ok
}

// Record adds a payment to the window. Empty hashes are not tracked.
func (w *ReconciliationWindow) Record(customerID string, paidOn time.Time, hash string) {
	w.ExistingPairs[NewPaymentKey(customerID, paidOn)] = struct{}{}
	if hash != "" {
		w.UsedHashes[hash] = struct{}{}
	}
}
