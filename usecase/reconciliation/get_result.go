package reconciliation

import (
	"context"
	"fmt"

	"github.com/labstack/gommon/log"

	"github.com/radhian/pix-reconciliation/consts"
	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/infra/db/model"
)

func (u *reconciliationUsecase) GetReconciliationResults() ([]model.ReconciliationProcessLog, error) {
	if u.runLogs == nil {
		return nil, fmt.Errorf("run history: %w", entity.ErrNotFound)
	}
	return u.runLogs.GetReconciliationProcessLog()
}

func (u *reconciliationUsecase) GetReconciliationResult(logID int64) (model.ReconciliationProcessLog, error) {
	if u.runLogs == nil {
		return model.ReconciliationProcessLog{}, fmt.Errorf("run history: %w", entity.ErrNotFound)
	}
	return u.runLogs.GetReconciliationProcessLogByID(logID)
}

// FailStaleRuns marks runs left in init or running state by a process that
// died mid-run as failed. It does nothing while a live run holds the lock.
func (u *reconciliationUsecase) FailStaleRuns(operator string) (int, error) {
	if u.runLogs == nil {
		return 0, nil
	}
	ctx := context.Background()
	acquired, err := u.TryAcquireLock(ctx)
	if err != nil {
		return 0, err
	}
	if !acquired {
		return 0, nil
	}
	defer u.UnlockProcess(ctx)

	stale, err := u.runLogs.GetReconciliationProcessLogByStatusList([]int{consts.StatusInit, consts.StatusRunning})
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, logEntry := range stale {
		logEntry.Status = consts.StatusFailed
		logEntry.Result = `{"error":"run interrupted"}`
		logEntry.UpdateTime = u.now().Unix()
		logEntry.UpdateBy = operator
		if err := u.runLogs.UpdateReconciliationProcessLog(logEntry); err != nil {
			return failed, err
		}
		log.Warnf("[BankSync] Marked interrupted run %d as failed", logEntry.ID)
		failed++
	}
	return failed, nil
}
