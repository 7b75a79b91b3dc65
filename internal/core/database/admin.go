package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DatabaseDSN points the admin connection string at the target database and
// applies verify-ca TLS when a root certificate is configured.
func DatabaseDSN(adminURL, dbName, sslCertPath string) (string, error) {
	u, err := url.Parse(adminURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("invalid DATABASE_URL: unsupported scheme %q", u.Scheme)
	}
	if dbName != "" {
		u.Path = "/" + dbName
	}
	if sslCertPath != "" {
		if _, err := os.Stat(sslCertPath); err != nil {
			return "", fmt.Errorf("ssl cert not accessible at %q: %w", sslCertPath, err)
		}
		q := u.Query()
		q.Set("sslmode", "verify-ca")
		q.Set("sslrootcert", sslCertPath)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// PrepareDatabase makes sure dbName exists on the server behind adminURL.
// With reset set the database is dropped and recreated first; this destroys
// everything indexed by earlier runs.
func PrepareDatabase(ctx context.Context, adminURL, sslCertPath, dbName string, reset bool) error {
	dsn, err := DatabaseDSN(adminURL, "", sslCertPath)
	if err != nil {
		return err
	}
	admin, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open admin db: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	name := pgx.Identifier{dbName}.Sanitize()

	if reset {
		log.Printf("database: dropping %s (reset requested)", dbName)
		if _, err := admin.ExecContext(ctx, "DROP DATABASE IF EXISTS "+name); err != nil {
			return fmt.Errorf("drop database %s: %w", dbName, err)
		}
	} else {
		var exists bool
		if err := admin.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, dbName).Scan(&exists); err != nil {
			return fmt.Errorf("database check failed: %w", err)
		}
		if exists {
			return nil
		}
	}

	if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+name); err != nil {
		return fmt.Errorf("create database %s: %w", dbName, err)
	}
	log.Printf("database: created %s", dbName)
	return nil
}
