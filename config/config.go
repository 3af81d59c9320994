package config

import (
	"github.com/ericlagergren/decimal"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/monitor"
)

// Config structure
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	DatabaseCluster DatabaseClusterConfig `mapstructure:"database_cluster"`
	Crons           Crons                 `mapstructure:"crons"`
	Value           ValueConfig           `mapstructure:"value"`
	Tiers           []*TierEntry          `mapstructure:"tiers"`
	ReferralConfig  ReferralsConfig       `mapstructure:"referral_config"`
	Scheduler       SchedulerConfig       `mapstructure:"scheduler"`
	Rewards         RewardsConfig         `mapstructure:"rewards"`
	Wallet          WalletConfig          `mapstructure:"wallet"`
}

// ServerConfig structure
type ServerConfig struct {
	API        APIConfig      `mapstructure:"api"`
	Monitoring monitor.Config `mapstructure:"monitoring"`
}

// APIConfig structure
type APIConfig struct {
	Port      int    `mapstructure:"port"`
	KeepAlive bool   `mapstructure:"keep_alive"`
	Domain    string `mapstructure:"domain"`
}

// DatabaseClusterConfig structure
type DatabaseClusterConfig struct {
	Writer DatabaseConfig `mapstructure:"writer"`
	Reader DatabaseConfig `mapstructure:"reader"`
}

// DatabaseConfig structure
type DatabaseConfig struct {
	Type            string // postgres
	Host            string
	Username        string
	Password        string
	Name            string
	SSLmode         string `mapstructure:"sslmode"`
	ApplicationName string `mapstructure:"application_name"`
	Port            int
}

// Crons - mapping of ids to execution frequency
type Crons map[string]string

// ValueConfig drives the contribution-to-currency value model
type ValueConfig struct {
	// UnitValue is the fixed exchange rate: currency per one contribution unit
	UnitValue float64 `mapstructure:"unit_value"`
	// Currency symbol passed along on wallet instructions
	Currency string `mapstructure:"currency"`
	// LockBonus maps a lock period key (year1/year2/year3) to its bonus rate
	LockBonus map[string]float64 `mapstructure:"lock_bonus"`
}

func (cfg *ValueConfig) GetUnitValue() *decimal.Big {
	return conv.NewDecimalFromFloat(cfg.UnitValue)
}

// TierEntry is the raw configuration form of one partner tier; the registry
// validates and converts the whole list at startup
type TierEntry struct {
	Tier                string  `mapstructure:"tier"`
	Threshold           float64 `mapstructure:"threshold"`
	ReferralDepth       int     `mapstructure:"referral_depth"`
	SelfMultiplier      float64 `mapstructure:"self_contribution_multiplier"`
	TeamBonusRate       float64 `mapstructure:"team_bonus_rate"`
	UpgradeReward       float64 `mapstructure:"tier_upgrade_reward"`
	AnnualDividendShare float64 `mapstructure:"annual_dividend_share"`
}

// DefaultTierEntries returns the built-in four-tier partner table, used when
// the configuration file does not override it
func DefaultTierEntries() []*TierEntry {
	return []*TierEntry{
		{Tier: "normal_user", Threshold: 0, ReferralDepth: 1, SelfMultiplier: 1.0, TeamBonusRate: 0, UpgradeReward: 0},
		{Tier: "regular_partner", Threshold: 50_000, ReferralDepth: 2, SelfMultiplier: 1.2, TeamBonusRate: 0.10, UpgradeReward: 5_000},
		{Tier: "senior_partner", Threshold: 100_000, ReferralDepth: 3, SelfMultiplier: 1.3, TeamBonusRate: 0.15, UpgradeReward: 10_000},
		{Tier: "founding_partner", Threshold: 200_000, ReferralDepth: 3, SelfMultiplier: 1.5, TeamBonusRate: 0.20, UpgradeReward: 20_000, AnnualDividendShare: 0.10},
	}
}

// ReferralsConfig holds the fixed per-level commission rates
type ReferralsConfig struct {
	L1 float64 `mapstructure:"L1"`
	L2 float64 `mapstructure:"L2"`
	L3 float64 `mapstructure:"L3"`
}

// RateForLevel returns the commission rate of the given chain level,
// zero for anything outside 1..3
func (cfg *ReferralsConfig) RateForLevel(level int) *decimal.Big {
	switch level {
	case 1:
		return conv.NewDecimalFromFloat(cfg.L1)
	case 2:
		return conv.NewDecimalFromFloat(cfg.L2)
	case 3:
		return conv.NewDecimalFromFloat(cfg.L3)
	default:
		return conv.NewDecimalWithPrecision()
	}
}

// SchedulerConfig drives the auto operation rules
type SchedulerConfig struct {
	// DormancyDays is the login inactivity window before a user is flagged dormant
	DormancyDays int `mapstructure:"dormancy_days"`
	// StreakBadges lists the consecutive-login-day thresholds that award a badge
	StreakBadges []int `mapstructure:"streak_badges"`
	// ProjectPenalty units deducted when an open assignment misses its deadline
	ProjectPenalty float64 `mapstructure:"project_penalty"`
	// PendingRewardBatch caps rows handled per scan
	PendingRewardBatch int `mapstructure:"pending_reward_batch"`
}

// RewardsConfig maps grantable reward amounts in contribution units
type RewardsConfig struct {
	NewUser float64 `mapstructure:"new_user"`
	Wakeup  float64 `mapstructure:"wakeup"`
	// Badge amounts keyed by streak threshold
	Badge map[string]float64 `mapstructure:"badge"`
	// Checkin is the daily check-in grant
	Checkin float64 `mapstructure:"checkin"`
}

// WalletConfig points at the external wallet collaborator's instruction topic
type WalletConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// LoadConfig Load server configuration from the yaml file
func LoadConfig(viperConf *viper.Viper) Config {
	var config Config

	err := viperConf.Unmarshal(&config)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to decode config into struct")
	}
	return config
}

// OpenConfig godoc
func OpenConfig(file string) {
	if file != "" {
		// Use config file from the flag.
		viper.SetConfigFile(file)
	}

	viper.SetConfigType("yaml")
	viper.SetConfigName(".config")
	viper.AddConfigPath(".")                       // First try to load the config from the current directory
	viper.AddConfigPath("$HOME")                   // Then try to load it from the HOME directory
	viper.AddConfigPath("/etc/contribution_api/")  // As a last resort try to load it from /etc/
	viper.SetEnvPrefix("CFG")
	viper.AutomaticEnv()
	setDefaultVariables()

	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		log.Fatal().Err(err).Msg("Unable to read configuration file")
	}
}

func setDefaultVariables() {
	viper.SetDefault("value.unit_value", 0.1)
	viper.SetDefault("value.currency", "CNY")
	viper.SetDefault("value.lock_bonus", map[string]float64{
		"year1": 0.20,
		"year2": 0.50,
		"year3": 1.00,
	})
	viper.SetDefault("referral_config.L1", 0.10)
	viper.SetDefault("referral_config.L2", 0.05)
	viper.SetDefault("referral_config.L3", 0.03)
	viper.SetDefault("crons", map[string]string{
		"dormancy_scan":        "0 0 3 * * *",
		"project_timeout_scan": "0 15 * * * *",
		"tier_promotions":      "0 */5 * * * *",
		"pending_rewards":      "0 */5 * * * *",
	})
	viper.SetDefault("scheduler.dormancy_days", 30)
	viper.SetDefault("scheduler.streak_badges", []int{7, 30, 100})
	viper.SetDefault("scheduler.project_penalty", 50)
	viper.SetDefault("scheduler.pending_reward_batch", 500)
	viper.SetDefault("rewards.checkin", 5)
}
