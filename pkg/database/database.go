// Package database provides the shared database connection logic for the
// document data layer. Production deployments use PostgreSQL; tests run
// against in-memory SQLite.
package database

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docvault-io/docvault/pkg/models"
)

// Config holds configuration for a database connection.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	// Connection pool settings
	MaxIdleConns    int           `yaml:"max_idle_conns"`     // default: 10
	MaxOpenConns    int           `yaml:"max_open_conns"`     // default: 25
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`  // default: 5 minutes
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"` // default: 10 minutes
}

// Connect establishes a PostgreSQL connection using the provided
// configuration.
func Connect(cfg Config, log hclog.Logger) (*gorm.DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		sslMode,
	)

	gormConfig := &gorm.Config{}
	if log != nil {
		gormConfig.Logger = NewGormLogger(log.Named("gorm"))
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = 10
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)

	maxOpenConns := cfg.MaxOpenConns
	if maxOpenConns == 0 {
		maxOpenConns = 25
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)

	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	connMaxIdleTime := cfg.ConnMaxIdleTime
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	if log != nil {
		log.Info("connected to database",
			"host", cfg.Host,
			"database", cfg.DBName,
			"max_idle_conns", maxIdleConns,
			"max_open_conns", maxOpenConns,
		)
	}

	return db, nil
}

// Migrate runs schema auto-migration for all data-layer models, plus the
// raw statements model tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.ModelsToAutoMigrate()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	for _, stmt := range models.MigrationStatements() {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
