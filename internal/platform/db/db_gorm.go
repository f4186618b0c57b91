// Package db はAPIが使うGORM接続を開きます。
package db

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authentity "blog_backend/internal/feature/auth/domain/entity"
	blogentity "blog_backend/internal/feature/blog/domain/entity"
)

// 対応するDB_DRIVERの値
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	defaultSQLitePath = "./blog.db"
	connectTimeout    = 60 * time.Second
	retryInterval     = 3 * time.Second
)

// Config describes how to reach the database.
type Config struct {
	Driver        string
	Path          string // sqliteのファイル
	URL           string // postgresのDSN全体（個別項目より優先）
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	RunMigrations bool
}

// LoadConfigFromEnv はDB_*・DATABASE_URL・RUN_MIGRATIONSからConfigを読み込みます。
func LoadConfigFromEnv() Config {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER")))
	if driver == "" {
		driver = DriverSQLite
	}
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = defaultSQLitePath
	}
	return Config{
		Driver:        driver,
		Path:          path,
		URL:           os.Getenv("DATABASE_URL"),
		Host:          os.Getenv("DB_HOST"),
		Port:          os.Getenv("DB_PORT"),
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          os.Getenv("DB_NAME"),
		SSLMode:       os.Getenv("DB_SSLMODE"),
		RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",
	}
}

// BuildDSN はcfgからドライバー別のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.Driver != DriverPostgres {
		return cfg.Path
	}
	if cfg.URL != "" {
		return cfg.URL
	}
	host, port, ssl := cfg.Host, cfg.Port, cfg.SSLMode
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "5432"
	}
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, cfg.User, cfg.Password, cfg.Name, ssl)
}

// ConnectWithRetry は成功するかtimeoutが経過するまでopenerを呼び出します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Open はcfgに従って接続し、指定された場合はマイグレーションを実行します。
// SQLiteは常にマイグレーションします。
func Open(cfg Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	var opener func(string) (*gorm.DB, error)
	switch cfg.Driver {
	case DriverSQLite:
		opener = func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gcfg) }
	case DriverPostgres:
		opener = func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gcfg) }
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), connectTimeout, opener)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		// 書き込みを1接続に限定し、SQLiteの"database is locked"を防ぐ
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.RunMigrations || cfg.Driver == DriverSQLite {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	slog.Info("database ready", "driver", cfg.Driver)
	return db, nil
}

// Migrate はusersとblogsのテーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&authentity.User{}, &blogentity.Blog{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
