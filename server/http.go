package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"gitlab.com/lingzhi-platform/contribution_api/actions"
	"gitlab.com/lingzhi-platform/contribution_api/logger"
	"gitlab.com/lingzhi-platform/contribution_api/monitor"
)

func (srv *server) ListenToRequests() {
	log.Info().Str("worker", "http_listen_to_requests").Str("action", "start").Msg("HTTP Listen to requests - started")
	defer log.Info().Str("worker", "http_listen_to_requests").Str("action", "stop").Msg("HTTP Listen to requests - stopped")

	a := srv.actions

	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "X-Requested-With", "Content-Length", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "OPTIONS"}

	r.Use(cors.New(corsConfig))
	r.Use(gin.Recovery())
	r.Use(logger.SetLogger())

	r.GET("/ping", actions.Ping)
	if srv.config.Server.Monitoring.Enabled {
		path := srv.config.Server.Monitoring.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, monitor.Handler())
	}

	{
		r.GET("/value/quote", a.QuoteValue)
		r.GET("/tiers", a.GetTiers)
		r.GET("/referrals/top", a.GetTopInviters)
	}

	users := r.Group("/users")
	{
		users.POST("", a.Register)
		users.POST("/:user_id/login", a.Login)
		users.POST("/:user_id/checkin", a.Checkin)

		users.GET("/:user_id/balance", a.GetBalance)
		users.GET("/:user_id/contributions", a.GetContributionHistory)
		users.POST("/:user_id/contributions", a.ReportContribution)
		users.GET("/:user_id/commissions", a.GetCommissionHistory)

		users.POST("/:user_id/referrer", a.LinkReferral)
		users.GET("/:user_id/referrals", a.GetReferrals)

		users.POST("/:user_id/exchange", a.Exchange)
		users.POST("/:user_id/assignments", a.CreateAssignment)
	}

	r.PUT("/assignments/:assignment_id/complete", a.CompleteAssignment)

	srv.HTTP = &http.Server{
		Addr:    fmt.Sprintf(":%d", srv.config.Server.API.Port),
		Handler: r,
	}
	srv.HTTP.SetKeepAlivesEnabled(srv.config.Server.API.KeepAlive)

	if err := srv.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Str("section", "server").Msg("Unable to start HTTP server")
	}
}
