package model

type ReconciliationProcessLog struct {
	ID                 int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ReconciliationType int64  `gorm:"not null" json:"reconciliation_type"`
	LookbackDays       int64  `gorm:"not null" json:"lookback_days"`
	EntriesSeen        int64  `gorm:"not null" json:"entries_seen"`
	MatchesCreated     int64  `gorm:"not null" json:"matches_created"`
	ProcessInfo        string `gorm:"type:text;not null" json:"process_info"`
	Status             int    `gorm:"not null;index" json:"status"`
	Result             string `gorm:"type:text;not null" json:"result"`
	CreateTime         int64  `gorm:"not null" json:"create_time"`
	CreateBy           string `gorm:"size:100;not null" json:"create_by"`
	UpdateTime         int64  `gorm:"not null" json:"update_time"`
	UpdateBy           string `gorm:"size:100;not null" json:"update_by"`
}
