package reconciliation

import (
	"context"

	"github.com/labstack/gommon/log"

	"github.com/radhian/pix-reconciliation/consts"
)

// TryAcquireLock takes the run lock shared by the HTTP trigger and the cron
// worker. false means another run holds it.
func (u *reconciliationUsecase) TryAcquireLock(ctx context.Context) (bool, error) {
	acquired, err := u.locker.TryLock(ctx, consts.BankSyncLockKey)
	if err != nil {
		return false, err
	}
	if acquired {
		log.Infof("[LOCK_PROCESS] key:%s", consts.BankSyncLockKey)
	}
	return acquired, nil
}

func (u *reconciliationUsecase) UnlockProcess(ctx context.Context) {
	// release even when the caller's context is already done
	if err := u.locker.Unlock(context.WithoutCancel(ctx), consts.BankSyncLockKey); err != nil {
		log.Errorf("[UNLOCK_PROCESS] key:%s err:%v", consts.BankSyncLockKey, err)
		return
	}
	log.Infof("[UNLOCK_PROCESS] key:%s", consts.BankSyncLockKey)
}
