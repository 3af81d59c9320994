package crons

import (
	"sync"

	"github.com/rs/zerolog/log"

	"gitlab.com/lingzhi-platform/contribution_api/monitor"
	"gitlab.com/lingzhi-platform/contribution_api/service"
)

var tierPromotionsLock sync.Mutex

// CronTierPromotions converts recorded tier promotions into upgrade rewards
func CronTierPromotions(svc *service.Service) {
	guarded(&tierPromotionsLock, func() {
		monitor.SchedulerRuns.WithLabelValues("tier_promotions").Inc()
		handled, err := svc.PromoteTierRewards(svc.SchedulerBatchSize())
		if err != nil {
			log.Error().Err(err).
				Str("section", "crons").
				Str("action", "tier_promotions").
				Msg("Tier promotion scan failed")
			return
		}
		if handled > 0 {
			log.Info().
				Str("section", "crons").
				Str("action", "tier_promotions").
				Int("handled", handled).
				Msg("Tier promotion scan completed")
		}
	})
}
