package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"

	"github.com/Halcy0nic/Uplest/internal/models"
)

type DatabaseClient struct {
	db    *sql.DB
	table string
	dim   int
}

// NewDatabaseClient opens the target database once, pings it and bootstraps
// the vector table. The returned client is reused for every insertion.
func NewDatabaseClient(ctx context.Context, opts Options) (*DatabaseClient, error) {
	if opts.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if opts.Table == "" {
		return nil, fmt.Errorf("vector table name is empty")
	}

	dsn, err := DatabaseDSN(opts.DatabaseURL, opts.DBName, opts.SslCertPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Ingestion is single-threaded; the query server is the only concurrent user.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db, opts.Table, opts.EmbedDim); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db, table: opts.Table, dim: opts.EmbedDim}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) tableName() string {
	return pgx.Identifier{c.table}.Sanitize()
}

// InsertEntry writes a single row. There is no surrounding transaction; each
// insert stands on its own.
func (c *DatabaseClient) InsertEntry(ctx context.Context, entry *models.VectorEntry) error {
	if entry == nil {
		return errors.New("nil vector entry")
	}
	if c.dim > 0 && len(entry.Embedding) != c.dim {
		return fmt.Errorf("embedding dimension %d does not match table dimension %d", len(entry.Embedding), c.dim)
	}
	meta, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	q := `
		INSERT INTO ` + c.tableName() + ` (node_id, text, metadata_, embedding)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return c.db.QueryRowContext(ctx, q,
		entry.NodeID, entry.Text, string(meta), pgvector.NewVector(entry.Embedding),
	).Scan(&entry.ID, &entry.CreatedAt)
}

// SearchEntries finds the top-k entries nearest to queryVec by L2 distance.
func (c *DatabaseClient) SearchEntries(ctx context.Context, queryVec []float32, limit int) ([]models.SearchHit, error) {
	if limit <= 0 {
		limit = 5
	}
	q := `
		SELECT node_id, text, metadata_, embedding <-> $1 AS distance
		FROM ` + c.tableName() + `
		ORDER BY embedding <-> $1
		LIMIT $2
	`
	rows, err := c.db.QueryContext(ctx, q, pgvector.NewVector(queryVec), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SearchHit
	for rows.Next() {
		var (
			hit  models.SearchHit
			meta []byte
		)
		if err := rows.Scan(&hit.NodeID, &hit.Text, &meta, &hit.Distance); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &hit.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for %s: %w", hit.NodeID, err)
			}
		}
		out = append(out, hit)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) CountEntries(ctx context.Context) (int64, error) {
	var n int64
	err := c.db.QueryRowContext(ctx, `SELECT count(*) FROM `+c.tableName()).Scan(&n)
	return n, err
}

var _ DbClient = (*DatabaseClient)(nil)
