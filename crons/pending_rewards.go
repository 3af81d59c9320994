package crons

import (
	"sync"

	"github.com/rs/zerolog/log"

	"gitlab.com/lingzhi-platform/contribution_api/monitor"
	"gitlab.com/lingzhi-platform/contribution_api/service"
)

var pendingRewardsLock sync.Mutex

// CronPendingRewards grants queued pending rewards of every type
func CronPendingRewards(svc *service.Service) {
	guarded(&pendingRewardsLock, func() {
		monitor.SchedulerRuns.WithLabelValues("pending_rewards").Inc()
		granted, err := svc.GrantPendingRewards(svc.SchedulerBatchSize())
		if err != nil {
			log.Error().Err(err).
				Str("section", "crons").
				Str("action", "pending_rewards").
				Msg("Pending reward scan failed")
			return
		}
		if granted > 0 {
			log.Info().
				Str("section", "crons").
				Str("action", "pending_rewards").
				Int("granted", granted).
				Msg("Pending reward scan completed")
		}
	})
}
