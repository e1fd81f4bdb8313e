package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/radhian/pix-reconciliation/entity"
	"github.com/radhian/pix-reconciliation/handler"
	"github.com/radhian/pix-reconciliation/infra/db/model"
)

type stubUsecase struct {
	calls    int
	panicky  bool
	err      error
	deadline bool
}

func (s *stubUsecase) RunReconciliation(ctx context.Context, lookbackDays int, operator string) (entity.RunSummary, error) {
	s.calls++
	_, s.deadline = ctx.Deadline()
	if s.panicky {
		panic("boom")
	}
	return entity.RunSummary{}, s.err
}

func (s *stubUsecase) GetReconciliationResults() ([]model.ReconciliationProcessLog, error) {
	return nil, nil
}

func (s *stubUsecase) GetReconciliationResult(logID int64) (model.ReconciliationProcessLog, error) {
	return model.ReconciliationProcessLog{}, nil
}

func (s *stubUsecase) FailStaleRuns(operator string) (int, error) { return 0, nil }

func (s *stubUsecase) KeepsHistory() bool { return false }

func TestRunOnce(t *testing.T) {
	cfg := CronWorkerConfig{Interval: time.Minute, Workers: 1}

	t.Run("bounded by interval", func(t *testing.T) {
		uc := &stubUsecase{}
		cfg.runOnce(handler.NewReconciliationHandler(uc, 30), 1)
		assert.Equal(t, 1, uc.calls)
		assert.True(t, uc.deadline)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		uc := &stubUsecase{panicky: true}
		assert.NotPanics(t, func() { cfg.runOnce(handler.NewReconciliationHandler(uc, 30), 1) })
	})

	t.Run("lock held is not an error", func(t *testing.T) {
		uc := &stubUsecase{err: entity.ErrRunInProgress}
		assert.NotPanics(t, func() { cfg.runOnce(handler.NewReconciliationHandler(uc, 30), 1) })
		assert.Equal(t, 1, uc.calls)
	})
}
