package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/radhian/pix-reconciliation/config"
	"github.com/radhian/pix-reconciliation/consts"
	"github.com/radhian/pix-reconciliation/controllers"
	"github.com/radhian/pix-reconciliation/handler"
)

type CronWorkerConfig struct {
	Interval time.Duration
	Workers  int
}

func (cfg CronWorkerConfig) startReconcileExecutorWorker(h *handler.ReconciliationHandler, workerID int) {
	for {
		cfg.runOnce(h, workerID)
		time.Sleep(cfg.Interval)
	}
}

func (cfg CronWorkerConfig) runOnce(h *handler.ReconciliationHandler, workerID int) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[Worker %d] panic recovered: %v", workerID, r)
		}
	}()

	// a run may not outlive its slot
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
	defer cancel()

	err := h.ReconciliationExecution(ctx)
	switch {
	case errors.Is(err, handler.ErrNoProcessHandled):
		log.Infof("[Worker %d] skipped: %s", workerID, err.Error())
	case err != nil:
		log.Errorf("[Worker %d] error: %s", workerID, err.Error())
	default:
		log.Infof("[Worker %d] success", workerID)
	}
}

func startCronWorker(app *controllers.App, cfg CronWorkerConfig) {
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			log.Infof("spawn [Worker %d]", workerID)
			cfg.startReconcileExecutorWorker(app.ReconciliationHandler, workerID)
		}(i + 1)
	}
	wg.Wait()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	app := controllers.App{}
	if err := app.Initialize(cfg); err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	if n, err := app.ReconciliationUsecase.FailStaleRuns(consts.OperatorSystem); err != nil {
		log.Errorf("[Cron] Could not close interrupted runs: %v", err)
	} else if n > 0 {
		log.Warnf("[Cron] Closed %d interrupted runs", n)
	}

	log.Infof("[Cron] Syncing every %s (lookback %d days)", cfg.Sync.Interval, cfg.Sync.LookbackDays)
	startCronWorker(&app, CronWorkerConfig{
		Workers:  consts.DefaultWorkerNumber,
		Interval: cfg.Sync.Interval,
	})
}
