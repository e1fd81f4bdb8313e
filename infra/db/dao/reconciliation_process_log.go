package dao

import (
	"fmt"

	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/infra/db/model"

	"github.com/jinzhu/gorm"
)

func (d *dao) GetReconciliationProcessLog() ([]model.ReconciliationProcessLog, error) {
	var logs []model.ReconciliationProcessLog
	if err := d.db.Order("create_time DESC").Order("id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}

func (d *dao) GetReconciliationProcessLogByStatusList(statusList []int) ([]model.ReconciliationProcessLog, error) {
	var processLogList []model.ReconciliationProcessLog
	if err := d.db.
		Where("status IN (?)", statusList).
		Order("create_time ASC").
		Find(&processLogList).Error; err != nil {
		return nil, err
	}
	return processLogList, nil
}

func (d *dao) CreateReconciliationProcessLog(payload *model.ReconciliationProcessLog) error {
	if err := d.db.Create(payload).Error; err != nil {
		return fmt.Errorf("failed to create process log: %w", err)
	}
	return nil
}

func (d *dao) GetReconciliationProcessLogByID(logID int64) (model.ReconciliationProcessLog, error) {
	var logEntry model.ReconciliationProcessLog
	if err := d.db.First(&logEntry, logID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return logEntry, fmt.Errorf("log %d: %w", logID, entity.ErrNotFound)
		}
		return logEntry, fmt.Errorf("failed to get log %d: %w", logID, err)
	}
	return logEntry, nil
}

func (d *dao) UpdateReconciliationProcessLog(logEntry model.ReconciliationProcessLog) error {
	if err := d.db.Save(&logEntry).Error; err != nil {
		return fmt.Errorf("failed to update log: %w", err)
	}
	return nil
}
