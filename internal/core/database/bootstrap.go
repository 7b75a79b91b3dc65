package db

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"text/template"
	"time"

	"github.com/jackc/pgx/v5"
)

//go:embed scripts/initdb.sql

var bootstrapFS embed.FS

const maxDegree = 16
const efConstruction = 200

type bootstrapParams struct {
	Table          string
	IndexName      string
	FileIndexName  string
	Dim            int
	MaxDegree      int
	EfConstruction int
}

// RenderBootstrap fills the embedded schema script for one vector table.
func RenderBootstrap(table string, dim int) (string, error) {
	if table == "" {
		return "", fmt.Errorf("table name is empty")
	}
	if dim <= 0 {
		return "", fmt.Errorf("invalid embedding dimension %d", dim)
	}
	raw, err := bootstrapFS.ReadFile("scripts/initdb.sql")
	if err != nil {
		return "", fmt.Errorf("read initdb.sql: %w", err)
	}
	tmpl, err := template.New("initdb").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse initdb.sql: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, bootstrapParams{
		Table:          pgx.Identifier{table}.Sanitize(),
		IndexName:      pgx.Identifier{"idx_" + table + "_embedding_hnsw"}.Sanitize(),
		FileIndexName:  pgx.Identifier{"idx_" + table + "_file_name"}.Sanitize(),
		Dim:            dim,
		MaxDegree:      maxDegree,
		EfConstruction: efConstruction,
	})
	if err != nil {
		return "", fmt.Errorf("render initdb.sql: %w", err)
	}
	return buf.String(), nil
}

// EnsureBootstrapped creates the extension, table and indexes when missing.
func EnsureBootstrapped(ctx context.Context, db *sql.DB, table string, dim int) error {

	ctxBoot, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	var exists bool
	err := db.QueryRowContext(ctxBoot, `
		SELECT EXISTS (
		  SELECT 1 FROM information_schema.tables
		  WHERE table_name = $1
		)`, table).
		Scan(&exists)
	if err != nil {
		return fmt.Errorf("vector table check failed: %w", err)
	}
	if exists {
		return nil
	}

	script, err := RenderBootstrap(table, dim)
	if err != nil {
		return err
	}
	return runBootstrap(ctxBoot, db, script)
}

func runBootstrap(ctx context.Context, db *sql.DB, script string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, script); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("exec bootstrap: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap: %w", err)
	}
	return nil
}
