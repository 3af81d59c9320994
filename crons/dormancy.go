package crons

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"gitlab.com/lingzhi-platform/contribution_api/monitor"
	"gitlab.com/lingzhi-platform/contribution_api/service"
)

var dormancyLock sync.Mutex

// CronDormancyScan marks inactive users as dormant and queues their wakeup
// reward
func CronDormancyScan(svc *service.Service) {
	guarded(&dormancyLock, func() {
		monitor.SchedulerRuns.WithLabelValues("dormancy_scan").Inc()
		marked, err := svc.ScanDormancy(time.Now())
		if err != nil {
			log.Error().Err(err).
				Str("section", "crons").
				Str("action", "dormancy_scan").
				Msg("Dormancy scan failed")
			return
		}
		if marked > 0 {
			log.Info().
				Str("section", "crons").
				Str("action", "dormancy_scan").
				Int("marked", marked).
				Msg("Dormancy scan completed")
		}
	})
}
