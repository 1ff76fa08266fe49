package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emilythestrangee/stackit/backend/internal/config"
	"github.com/emilythestrangee/stackit/backend/internal/logging"
	"github.com/emilythestrangee/stackit/backend/internal/models"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error
	GetDB() *gorm.DB
}

type service struct {
	db     *gorm.DB
	name   string
	logger *logrus.Logger
}

// New opens the configured database, migrates the schema and tunes the pool.
func New(cfg config.DatabaseConfig, logger *logrus.Logger) (Service, error) {
	var dialector gorm.Dialector
	name := cfg.Name
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
		name = cfg.SQLitePath
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := Open(dialector, logger)
	if err != nil {
		return nil, err
	}
	logger.WithField("driver", cfg.Driver).Info("Database connected successfully")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	logger.Info("Database migrations completed")

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// SQLite allows one writer; a single connection keeps transactions from
		// tripping over "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &service{db: db, name: name, logger: logger}, nil
}

// FromDB wraps an already opened and migrated connection.
func FromDB(db *gorm.DB, name string, logger *logrus.Logger) Service {
	return &service{db: db, name: name, logger: logger}
}

// Open connects through dialector with the project's GORM settings.
func Open(dialector gorm.Dialector, logger *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.GORM(logger),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// SQLiteDSN enables foreign keys, which SQLite leaves off by default.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Health checks the health of the database connection by pinging the database.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats := make(map[string]string)

	sqlDB, err := s.db.DB()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db error: %v", err)
		return stats
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := sqlDB.Stats()
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	s.logger.Infof("Disconnected from database: %s", s.name)
	return sqlDB.Close()
}
