package crons

import (
	"sync"

	"github.com/robfig/cron"

	"gitlab.com/lingzhi-platform/contribution_api/config"
	"gitlab.com/lingzhi-platform/contribution_api/service"
)

var cronService *cron.Cron

// Start Initiate the crons based on the given configuration file
func Start(crons config.Crons, svc *service.Service) {
	cronService = cron.New()
	for id, schedule := range crons {
		callback := GetCronByID(id, svc)
		_ = cronService.AddFunc(schedule, callback)
	}
	cronService.Start()
}

// GetCronByID get a function to execute based on the id
func GetCronByID(id string, svc *service.Service) func() {
	switch id {
	case "dormancy_scan":
		return func() {
			CronDormancyScan(svc)
		}
	case "project_timeout_scan":
		return func() {
			CronProjectTimeoutScan(svc)
		}
	case "tier_promotions":
		return func() {
			CronTierPromotions(svc)
		}
	case "pending_rewards":
		return func() {
			CronPendingRewards(svc)
		}
	}
	return (func() {})
}

// Close godoc
func Close() {
	cronService.Stop()
}

// guarded runs fn unless a previous run of the same rule is still in
// progress. Ticks that fire while a slow scan is running are skipped so a
// rule never races itself over the same rows.
func guarded(lock *sync.Mutex, fn func()) {
	if !lock.TryLock() {
		return
	}
	defer lock.Unlock()
	fn()
}
