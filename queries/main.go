package queries

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gitlab.com/lingzhi-platform/contribution_api/config"
)

// Repo holds the database cluster connections. Conn is the writer used for
// all ledger mutations, ConnReader serves listing and snapshot queries.
type Repo struct {
	Conn       *gorm.DB
	ConnReader *gorm.DB
}

var repo *Repo

// Init connects the repo to the configured database cluster
func Init(cfg config.DatabaseClusterConfig) *Repo {
	writer := connect(cfg.Writer, "writer")
	reader := writer
	if cfg.Reader.Host != "" {
		reader = connect(cfg.Reader, "reader")
	}
	repo = &Repo{Conn: writer, ConnReader: reader}
	return repo
}

// GetRepo returns the initialized repo instance
func GetRepo() *Repo {
	return repo
}

// SetRepo overrides the repo instance, used from tests
func SetRepo(r *Repo) {
	repo = r
}

func connect(cfg config.DatabaseConfig, role string) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Name, cfg.SSLmode, cfg.ApplicationName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal().Err(err).Str("section", "queries").Str("db", role).Msg("Unable to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Str("section", "queries").Str("db", role).Msg("Unable to access sql connection pool")
	}
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetMaxOpenConns(32)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info().Str("section", "queries").Str("db", role).Str("host", cfg.Host).Msg("Database connection established")
	return db
}

// Create inserts any record on the writer connection
func (r *Repo) Create(record interface{}) error {
	return r.Conn.Create(record).Error
}
