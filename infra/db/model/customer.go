package model

import "github.com/shopspring/decimal"

type Customer struct {
	ID             string          `gorm:"primary_key;size:36" json:"id"`
	Name           string          `gorm:"size:200;not null" json:"name"`
	Document       string          `gorm:"size:20" json:"document"`
	ExpectedAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"expected_amount"`
	DueDay         int             `gorm:"not null" json:"due_day"`
	Active         bool            `gorm:"not null;index" json:"active"`
	CreateTime     int64           `gorm:"not null" json:"create_time"`
	UpdateTime     int64           `gorm:"not null" json:"update_time"`
}
