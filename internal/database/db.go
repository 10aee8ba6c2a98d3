package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinema-console/internal/model"
)

// Connector opens a verified database handle for one credential pair. The
// session layer swaps connectors in tests.
type Connector func(ctx context.Context, cred model.Credentials, ep model.Endpoint) (*sql.DB, error)

// DSN builds the MariaDB/MySQL data source name for cred at ep.
func DSN(cred model.Credentials, ep model.Endpoint) string {
	cfg := mysql.NewConfig()
	cfg.User = cred.Username()
	cfg.Passwd = cred.Password()
	cfg.Net = "tcp"
	cfg.Addr = ep.Addr()
	cfg.DBName = ep.Database
	// parseTime=true -> DATETIME -> time.Time
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Collation = "utf8mb4_general_ci"
	return cfg.FormatDSN()
}

// Open connects to MariaDB/MySQL and verifies the connection.
func Open(ctx context.Context, cred model.Credentials, ep model.Endpoint) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cred, ep))
	if err != nil {
		return nil, err
	}

	// One operator, one statement at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
