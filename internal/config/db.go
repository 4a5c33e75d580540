package config

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"travelagency/internal/logger"

	_ "github.com/go-sql-driver/mysql"
)

var (
	DB   *sql.DB
	dbMu sync.Mutex
)

// DBPool sizes the MySQL connection pool. Zero fields take the defaults below.
type DBPool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	PingTimeout time.Duration
}

func (p DBPool) withDefaults() DBPool {
	if p.MaxOpen <= 0 {
		p.MaxOpen = 25
	}
	if p.MaxIdle <= 0 || p.MaxIdle > p.MaxOpen {
		p.MaxIdle = p.MaxOpen
	}
	if p.MaxLifetime <= 0 {
		p.MaxLifetime = 10 * time.Minute
	}
	if p.MaxIdleTime <= 0 {
		p.MaxIdleTime = 5 * time.Minute
	}
	if p.PingTimeout <= 0 {
		p.PingTimeout = 3 * time.Second
	}
	return p
}

func applyPool(db *sql.DB, p DBPool) {
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxLifetime(p.MaxLifetime)
	db.SetConnMaxIdleTime(p.MaxIdleTime)
}

// ConnectDB opens the shared booking database once; later calls return the same pool.
func ConnectDB(dsn string, pool DBPool) *sql.DB {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		return DB
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		logger.ErrorLogger.Fatalf("failed to open MySQL: %v", err)
	}

	pool = pool.withDefaults()
	applyPool(db, pool)

	ctx, cancel := context.WithTimeout(context.Background(), pool.PingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.ErrorLogger.Fatalf("failed to ping MySQL: %v", err)
	}

	DB = db
	logger.InfoLogger.WithField("max_open", pool.MaxOpen).Info("connected to MySQL")
	return DB
}

func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
}
