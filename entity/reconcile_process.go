package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementEntry is one movement read from the bank statement source.
type StatementEntry struct {
	Description  string
	Amount       decimal.NullDecimal // Valid is false when the source sent no usable amount
	OccurredOn   string              // raw date text, resolved by utils.ResolveDate
	ExternalHash string
	IsPixCredit  bool
}

type Customer struct {
	ID             string
	Name           string
	Document       string
	ExpectedAmount decimal.Decimal
	DueDay         int
	Active         bool
}

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusIssued  InvoiceStatus = "issued"
)

// MatchedPayment is created exactly once per successful match.
type MatchedPayment struct {
	ID            string          `json:"id,omitempty"`
	CustomerID    string          `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaidOn        time.Time       `json:"paid_on"`
	InvoiceStatus InvoiceStatus   `json:"invoice_status"`
	ExternalHash  string          `json:"external_hash,omitempty"`
}

type RunSummary struct {
	LogID          int64  `json:"log_id,omitempty"`
	Message        string `json:"message"`
	EntriesSeen    int    `json:"entries_seen"`
	MatchesCreated int    `json:"matches_created"`
}

type SyncRequest struct {
	LookbackDays int `validate:"min=1,max=365"`
}

// PaymentFilter narrows ListPayments. Zero values mean "no bound".
type PaymentFilter struct {
	From          time.Time
	To            time.Time
	InvoiceStatus InvoiceStatus
	NewestFirst   bool
}

type ProcessMetadata struct {
	LookbackDays int    `json:"lookback_days"`
	WindowStart  string `json:"window_start"`
	WindowEnd    string `json:"window_end"`
}
