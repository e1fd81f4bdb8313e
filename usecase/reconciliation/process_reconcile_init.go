package reconciliation

import (
	"encoding/json"
	"fmt"

	"github.com/radhian/pix-reconciliation/consts"
	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/infra/db/model"
	"github.com/radhian/pix-reconciliation/utils"
)

// processReconciliationInit records the start of a run. It returns nil when
// the store keeps no history.
func (u *reconciliationUsecase) processReconciliationInit(lookbackDays int, operator string) (*model.ReconciliationProcessLog, error) {
	if u.runLogs == nil {
		return nil, nil
	}
	timeNow := u.now()
	today := utils.DateOnly(timeNow)

	processInfo := entity.ProcessMetadata{
		LookbackDays: lookbackDays,
		WindowStart:  today.AddDate(0, 0, -consts.DedupWindowDays).Format(consts.DateLayout),
		WindowEnd:    today.Format(consts.DateLayout),
	}
	processInfoJSON, err := json.Marshal(processInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal process info: %w", err)
	}

	logEntry := &model.ReconciliationProcessLog{
		ReconciliationType: consts.ReconciliationTypePixStatement,
		LookbackDays:       int64(lookbackDays),
		ProcessInfo:        string(processInfoJSON),
		Status:             consts.StatusRunning,
		Result:             "",
		CreateTime:         timeNow.Unix(),
		CreateBy:           operator,
		UpdateTime:         timeNow.Unix(),
		UpdateBy:           operator,
	}
	if err := u.runLogs.CreateReconciliationProcessLog(logEntry); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUpstream, err)
	}
	return logEntry, nil
}
