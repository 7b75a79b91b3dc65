package ingestion_engine

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Halcy0nic/Uplest/internal/core"
	"github.com/Halcy0nic/Uplest/internal/models"
)

// Sink writes texts into the vector index.
type Sink interface {
	InsertRecords(ctx context.Context, recs []models.Record) (int, error)
	InsertLoaded(ctx context.Context, docs []models.LoadedDocument) (int, error)
}

// IndexSink embeds and inserts texts one chunk at a time. Every text is
// scrubbed of NUL first; texts left blank are skipped. A failure stops the
// run; rows already written stay written.
type IndexSink struct {
	embedder core.EmbeddingProvider
	store    core.VectorStore
	chunker  *Chunker
}

// NewIndexSink returns a sink that splits texts with chunker; nil inserts
// every text whole.
func NewIndexSink(emb core.EmbeddingProvider, store core.VectorStore, chunker *Chunker) *IndexSink {
	return &IndexSink{embedder: emb, store: store, chunker: chunker}
}

// InsertRecords returns the number of rows written.
func (s *IndexSink) InsertRecords(ctx context.Context, recs []models.Record) (int, error) {
	rows := 0
	for n, rec := range recs {
		meta := copyMeta(rec.Metadata)
		meta[models.MetaFileName] = rec.SourceName
		k, err := s.insert(ctx, rec.Text, meta)
		rows += k
		if err != nil {
			return rows, fmt.Errorf("insert record %d (%s): %w", n, rec.SourceName, err)
		}
	}
	return rows, nil
}

// InsertLoaded returns the number of rows written.
func (s *IndexSink) InsertLoaded(ctx context.Context, docs []models.LoadedDocument) (int, error) {
	rows := 0
	for n, doc := range docs {
		k, err := s.insert(ctx, doc.Text, doc.Metadata)
		rows += k
		if err != nil {
			return rows, fmt.Errorf("insert loaded document %d (%s): %w", n, doc.Metadata[models.MetaFileName], err)
		}
	}
	return rows, nil
}

func (s *IndexSink) insert(ctx context.Context, text string, meta map[string]string) (int, error) {
	text = Scrub(text)
	if strings.TrimSpace(text) == "" {
		log.Printf("IndexSink: skipping empty text from %s", describe(meta))
		return 0, nil
	}

	meta = ScrubMetadata(meta)
	rows := 0
	for i, chunk := range s.chunker.Split(text) {
		vecs, err := s.embedder.EmbedTexts(ctx, []string{chunk})
		if err != nil {
			return rows, fmt.Errorf("embed: %w", err)
		}
		if len(vecs) != 1 {
			return rows, fmt.Errorf("embed size mismatch: got %d want 1", len(vecs))
		}

		m := copyMeta(meta)
		m[models.MetaChunk] = strconv.Itoa(i)
		if err := s.store.InsertEntry(ctx, &models.VectorEntry{
			NodeID:    uuid.NewString(),
			Text:      chunk,
			Metadata:  m,
			Embedding: vecs[0],
		}); err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

func describe(meta map[string]string) string {
	name := meta[models.MetaFileName]
	if page := meta[models.MetaPageLabel]; page != "" {
		return name + " page " + page
	}
	return name
}
