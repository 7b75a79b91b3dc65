package core

import (
	"context"
	"io"

	"github.com/Halcy0nic/Uplest/internal/models"
)

// VectorStore is the write and query surface of the pgvector index.
type VectorStore interface {
	InsertEntry(ctx context.Context, entry *models.VectorEntry) error
	SearchEntries(ctx context.Context, queryVec []float32, limit int) ([]models.SearchHit, error)
	CountEntries(ctx context.Context) (int64, error)
	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
}
