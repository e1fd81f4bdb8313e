package handler

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"

	"github.com/radhian/pix-reconciliation/consts"
	"github.com/radhian/pix-reconciliation/entity"
)

var ErrNoProcessHandled = errors.New("no process handled")

// ReconciliationExecution is the cron entry point. A run already in progress
// elsewhere is reported as ErrNoProcessHandled.
func (h *ReconciliationHandler) ReconciliationExecution(ctx context.Context) error {
	summary, err := h.Usecase.RunReconciliation(ctx, h.LookbackDays, consts.OperatorSystem)
	if errors.Is(err, entity.ErrRunInProgress) {
		return ErrNoProcessHandled
	}
	if err != nil {
		return err
	}

	log.Infof("[ReconcileJob] Scheduled sync done: entries=%d, matches=%d", summary.EntriesSeen, summary.MatchesCreated)
	return nil
}
