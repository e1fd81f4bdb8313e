package model

import "github.com/shopspring/decimal"

// MatchedPayment rows are append-only. PaidOn is stored as YYYY-MM-DD text so
// range filters compare lexically on every dialect.
type MatchedPayment struct {
	ID            string          `gorm:"primary_key;size:36" json:"id"`
	CustomerID    string          `gorm:"size:36;not null;index" json:"customer_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	PaidOn        string          `gorm:"size:10;not null;index" json:"paid_on"`
	InvoiceStatus string          `gorm:"size:20;not null;index" json:"invoice_status"`
	ExternalHash  *string         `gorm:"size:255;unique_index" json:"external_hash"`
	CreateTime    int64           `gorm:"not null" json:"create_time"`
	CreateBy      string          `gorm:"size:100;not null" json:"create_by"`
}
