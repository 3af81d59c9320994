package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"gitlab.com/lingzhi-platform/contribution_api/actions"
	"gitlab.com/lingzhi-platform/contribution_api/apps/wallet"
	"gitlab.com/lingzhi-platform/contribution_api/config"
	"gitlab.com/lingzhi-platform/contribution_api/crons"
	"gitlab.com/lingzhi-platform/contribution_api/queries"
	"gitlab.com/lingzhi-platform/contribution_api/service"
)

// Server interface
type Server interface {
	Listen()
}

type server struct {
	config  config.Config
	actions *actions.Actions
	service *service.Service
	wallet  *wallet.App
	ctx     context.Context
	close   context.CancelFunc
	HTTP    *http.Server
}

// NewServer constructor
func NewServer(cfg config.Config) Server {
	ctx, close := context.WithCancel(context.Background())

	repo := queries.Init(cfg.DatabaseCluster)
	queries.SetRepo(repo)

	walletApp := wallet.NewApp(cfg.Wallet)

	dataService, err := service.NewService(cfg, repo, walletApp)
	if err != nil {
		close()
		log.Fatal().Err(err).Str("section", "server").Msg("Unable to init service")
	}

	userActions := actions.NewActions(cfg, dataService, ctx)

	return &server{
		config:  cfg,
		service: dataService,
		actions: userActions,
		wallet:  walletApp,
		ctx:     ctx,
		close:   close,
	}
}

// Listen starts the crons and the http server and blocks until the process
// receives a termination signal
func (srv *server) Listen() {
	crons.Start(srv.config.Crons, srv.service)

	go srv.ListenToRequests()

	srv.stopOnSignal()
}

func (srv *server) stopOnSignal() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc

	log.Info().Str("section", "server").Str("app_event", "terminate").Str("signal", sig.String()).Msg("Shutting down services")
	srv.closeApp(5 * time.Second)
}

func (srv *server) closeApp(timeout time.Duration) {
	timeoutFunc := time.AfterFunc(timeout, func() {
		log.Printf("timeout %d ms has been elapsed, force exit", timeout.Milliseconds())
		os.Exit(0)
	})
	defer timeoutFunc.Stop()

	crons.Close()

	if srv.HTTP != nil {
		if err := srv.HTTP.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Str("section", "server").Str("action", "terminate").Msg("Unable to shutdown HTTP server")
		}
	}

	if err := srv.wallet.Close(); err != nil {
		log.Error().Err(err).Str("section", "server").Str("action", "terminate").Msg("Unable to close wallet producer")
	}

	srv.close()
}
