package service

import (
	"context"

	"gitlab.com/lingzhi-platform/contribution_api/config"
	"gitlab.com/lingzhi-platform/contribution_api/model"
	"gitlab.com/lingzhi-platform/contribution_api/queries"
)

// WalletApp is the outbound boundary towards the external wallet ledger.
// The core computes amounts and emits instructions; real money movement
// happens on the other side.
type WalletApp interface {
	Credit(ctx context.Context, userID uint64, amount, currency, reference string, lockPeriod model.LockPeriod) (string, error)
	Debit(ctx context.Context, userID uint64, amount, currency, reference string) (string, error)
}

// Service structure
type Service struct {
	repo     *queries.Repo
	cfg      config.Config
	registry *TierRegistry
	value    *ValueModel
	wallet   WalletApp
}

// NewService wires the core together. The tier table is validated here once;
// a broken table refuses to start the process.
func NewService(cfg config.Config, repo *queries.Repo, walletApp WalletApp) (*Service, error) {
	registry, err := NewTierRegistry(cfg.Tiers)
	if err != nil {
		return nil, err
	}
	return &Service{
		repo:     repo,
		cfg:      cfg,
		registry: registry,
		value:    NewValueModel(cfg.Value),
		wallet:   walletApp,
	}, nil
}

// GetRepo exposes the repo to the crons package
func (service *Service) GetRepo() *queries.Repo {
	return service.repo
}

// TierRegistry exposes the tier table to collaborators
func (service *Service) TierRegistry() *TierRegistry {
	return service.registry
}

// ValueModel exposes the value model to collaborators
func (service *Service) ValueModel() *ValueModel {
	return service.value
}

// SchedulerBatchSize limits how many rows a single scheduler scan touches
func (service *Service) SchedulerBatchSize() int {
	if service.cfg.Scheduler.PendingRewardBatch <= 0 {
		return 500
	}
	return service.cfg.Scheduler.PendingRewardBatch
}
