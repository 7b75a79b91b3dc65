package db

import (
	"github.com/Halcy0nic/Uplest/internal/core"
)

// DbClient is the persistence surface the rest of the app depends on.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	core.VectorStore
}

// Options selects the target database and vector table.
type Options struct {
	DatabaseURL string
	DBName      string
	SslCertPath string
	Table       string
	EmbedDim    int
}
