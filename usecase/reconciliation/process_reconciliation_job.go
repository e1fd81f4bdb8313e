package reconciliation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"

	"github.com/radhian/pix-reconciliation/consts"
	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/infra/db/model"
	"github.com/radhian/pix-reconciliation/infra/metrics"
	"github.com/radhian/pix-reconciliation/utils"
)

const runCompletedMessage = "synchronization completed"

// RunReconciliation fetches the statement of the last lookbackDays, matches
// its PIX credits against the active customers and records every match once.
// Only one run executes at a time; a concurrent call gets ErrRunInProgress.
// A statement source with missing credentials fails the call before the lock,
// the run log or any store is touched.
func (u *reconciliationUsecase) RunReconciliation(ctx context.Context, lookbackDays int, operator string) (entity.RunSummary, error) {
	if lookbackDays <= 0 {
		lookbackDays = consts.DefaultLookbackDays
	}
	if operator == "" {
		operator = consts.OperatorSystem
	}

	if checker, ok := u.statement.(CredentialChecker); ok {
		if err := checker.CheckCredentials(); err != nil {
			log.Errorf("[BankSync] Run requested by %s without credentials: %v", operator, err)
			u.metrics.ObserveRun(metrics.ResultCredentialMissing, 0, 0, 0)
			return entity.RunSummary{}, err
		}
	}

	acquired, err := u.TryAcquireLock(ctx)
	if err != nil {
		return entity.RunSummary{}, fmt.Errorf("%w: acquire run lock: %v", entity.ErrUpstream, err)
	}
	if !acquired {
		log.Warnf("[BankSync] Run requested by %s while another run is in progress", operator)
		u.metrics.ObserveRun(metrics.ResultSkippedLockHeld, 0, 0, 0)
		return entity.RunSummary{}, entity.ErrRunInProgress
	}
	defer u.UnlockProcess(ctx)

	started := u.now()
	logEntry, err := u.processReconciliationInit(lookbackDays, operator)
	if err != nil {
		log.Errorf("[BankSync] Could not create process log: %v", err)
		return entity.RunSummary{}, err
	}

	summary, runErr := u.processReconciliationJob(ctx, lookbackDays)
	if runErr == nil {
		summary.Message = runCompletedMessage
	}
	if logEntry != nil {
		summary.LogID = logEntry.ID
		u.updateProcessLogAfterRun(*logEntry, summary, runErr, operator)
	}
	u.metrics.ObserveRun(resultLabel(runErr), u.now().Sub(started), summary.EntriesSeen, summary.MatchesCreated)

	if runErr != nil {
		log.Errorf("[BankSync] Run failed after %d matches: %v", summary.MatchesCreated, runErr)
		return summary, runErr
	}
	log.Infof("[BankSync] Run completed: entries=%d, matches=%d", summary.EntriesSeen, summary.MatchesCreated)
	return summary, nil
}

func (u *reconciliationUsecase) processReconciliationJob(ctx context.Context, lookbackDays int) (entity.RunSummary, error) {
	log.Infof("[BankSync] Starting run (days=%d)", lookbackDays)

	// the statement goes first so a missing certificate fails before any store call
	entries, err := u.statement.FetchEntries(ctx, lookbackDays)
	if err != nil {
		return entity.RunSummary{}, fmt.Errorf("fetch statement: %w", err)
	}
	credits := FilterPixCredits(entries)
	log.Infof("[BankSync] %d of %d statement entries are PIX credits", len(credits), len(entries))

	today := utils.DateOnly(u.now())
	window, err := u.ledger.LoadRecent(ctx, today.AddDate(0, 0, -consts.DedupWindowDays), today)
	if err != nil {
		return entity.RunSummary{EntriesSeen: len(credits)}, fmt.Errorf("load recent payments: %w", err)
	}

	customers, err := u.customers.ListActive(ctx)
	if err != nil {
		return entity.RunSummary{EntriesSeen: len(credits)}, fmt.Errorf("list active customers: %w", err)
	}
	log.Infof("[BankSync] Matching against %d active customers, %d payments in window", len(customers), len(window.ExistingPairs))

	return u.engine.Reconcile(ctx, credits, customers, window, today)
}

func (u *reconciliationUsecase) updateProcessLogAfterRun(
	logEntry model.ReconciliationProcessLog,
	summary entity.RunSummary,
	runErr error,
	operator string,
) {
	logEntry.EntriesSeen = int64(summary.EntriesSeen)
	logEntry.MatchesCreated = int64(summary.MatchesCreated)
	logEntry.Result = buildResultSummary(summary, runErr)
	if runErr != nil {
		logEntry.Status = consts.StatusFailed
	} else {
		logEntry.Status = consts.StatusFinished
	}
	logEntry.UpdateTime = u.now().Unix()
	logEntry.UpdateBy = operator

	if err := u.runLogs.UpdateReconciliationProcessLog(logEntry); err != nil {
		log.Errorf("[BankSync] Failed to update log %d: %v", logEntry.ID, err)
	}
}

func buildResultSummary(summary entity.RunSummary, runErr error) string {
	result := struct {
		EntriesSeen    int    `json:"entries_seen"`
		MatchesCreated int    `json:"matches_created"`
		Error          string `json:"error,omitempty"`
	}{
		EntriesSeen:    summary.EntriesSeen,
		MatchesCreated: summary.MatchesCreated,
	}
	if runErr != nil {
		result.Error = runErr.Error()
	}
	resBytes, err := json.Marshal(result)
	if err != nil {
		return "{}"
	}
	return string(resBytes)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, entity.ErrCredentialNotProvisioned):
		return metrics.ResultCredentialMissing
	default:
		return metrics.ResultUpstreamError
	}
}
