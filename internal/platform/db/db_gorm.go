// Package db opens the GORM database handle for the configured driver and
// runs schema migration.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	catalogentity "shop_backend/internal/feature/catalog/domain/entity"
	usersentity "shop_backend/internal/feature/users/domain/entity"
)

// Config holds the database connection settings.
type Config struct {
	// Driver is mysql (default), postgres or sqlite.
	Driver string

	User     string
	Password string
	Name     string
	Host     string
	Port     string

	// InstanceName selects a Cloud SQL unix socket over TCP when set.
	InstanceName string

	// URL is a full connection string; it takes precedence for postgres.
	URL string

	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string
}

// LoadConfig loads database configuration from environment variables.
// The default driver is MySQL; APP_CONFIG=development flips the default to a
// local SQLite file, and DB_DRIVER overrides both.
func LoadConfig() Config {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		if os.Getenv("APP_CONFIG") == "development" {
			driver = "sqlite"
		} else {
			driver = "mysql"
		}
	}
	path := os.Getenv("DB_SQLITE_PATH")
	if path == "" {
		path = "./shop.db"
	}
	return Config{
		Driver:       driver,
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		URL:          os.Getenv("DATABASE_URL"),
		SQLitePath:   path,
	}
}

// BuildDSN renders the MySQL connection string. A Cloud SQL instance name
// takes precedence over host/port.
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// BuildPostgresDSN renders the PostgreSQL connection string unless a full
// DATABASE_URL was provided.
func BuildPostgresDSN(cfg Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)
}

// Opener opens a gorm.DB for a DSN. Injected so retry behaviour is testable.
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry keeps reopening the connection until it succeeds or the
// timeout elapses. Container databases often come up after the service does.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB opens the configured database and migrates the schema.
// It terminates the process when the database stays unreachable.
func OpenDB() *gorm.DB {
	cfg := LoadConfig()

	var (
		dsn    string
		opener Opener
	)
	switch cfg.Driver {
	case "sqlite":
		dsn = cfg.SQLitePath
		opener = func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gsqlite.Open(dsn), &gorm.Config{})
		}
	case "postgres":
		dsn = BuildPostgresDSN(cfg)
		opener = func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
		}
	default:
		dsn = BuildDSN(cfg)
		opener = func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gmysql.Open(dsn), &gorm.Config{})
		}
	}

	db, err := ConnectWithRetry(dsn, 60*time.Second, opener)
	if err != nil {
		log.Fatal(err)
	}

	// テーブルが無ければ起動時に作成する（RUN_MIGRATIONS=false で抑止可能）
	if os.Getenv("RUN_MIGRATIONS") != "false" {
		if err := db.AutoMigrate(
			&usersentity.User{},
			&catalogentity.Product{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
