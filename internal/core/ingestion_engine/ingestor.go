package ingestion_engine

import "context"

type Ingestor interface {
	Run(ctx context.Context) (Summary, error)
}

var _ Ingestor = (*DocumentIngestor)(nil)
