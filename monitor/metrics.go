package monitor

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config for the monitoring endpoint
type Config struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

var (
	// ContributionsRecorded counts ledger records by kind
	ContributionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contribution_api",
		Name:      "contributions_recorded_total",
		Help:      "Number of contribution records appended to the ledger",
	}, []string{"kind"})

	// CommissionsPaid counts upstream payouts by entry kind and level
	CommissionsPaid = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contribution_api",
		Name:      "commissions_paid_total",
		Help:      "Number of commission ledger entries created",
	}, []string{"kind", "level"})

	// PartialCommissionFailures counts ancestor credits that failed and were
	// left for manual reconciliation
	PartialCommissionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "contribution_api",
		Name:      "partial_commission_failures_total",
		Help:      "Number of best-effort ancestor credits that failed",
	})

	// SchedulerRuns counts auto operation scans by rule
	SchedulerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contribution_api",
		Name:      "scheduler_runs_total",
		Help:      "Number of auto operation scheduler scans",
	}, []string{"rule"})

	// SchedulerItemFailures counts per-user rule failures that were isolated
	SchedulerItemFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contribution_api",
		Name:      "scheduler_item_failures_total",
		Help:      "Number of per-user scheduler rule failures",
	}, []string{"rule"})
)

// Handler exposes the prometheus metrics endpoint for the gin router
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
