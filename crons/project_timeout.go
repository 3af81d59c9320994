package crons

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"gitlab.com/lingzhi-platform/contribution_api/monitor"
	"gitlab.com/lingzhi-platform/contribution_api/service"
)

var projectTimeoutLock sync.Mutex

// CronProjectTimeoutScan penalizes open assignments past their deadline
func CronProjectTimeoutScan(svc *service.Service) {
	guarded(&projectTimeoutLock, func() {
		monitor.SchedulerRuns.WithLabelValues("project_timeout_scan").Inc()
		penalized, err := svc.PenalizeOverdueAssignments(time.Now(), svc.SchedulerBatchSize())
		if err != nil {
			log.Error().Err(err).
				Str("section", "crons").
				Str("action", "project_timeout_scan").
				Msg("Project timeout scan failed")
			return
		}
		if penalized > 0 {
			log.Info().
				Str("section", "crons").
				Str("action", "project_timeout_scan").
				Int("penalized", penalized).
				Msg("Project timeout scan completed")
		}
	})
}
