package models

import (
	"time"
)

// Record is one text unit produced by an extractor or the image captioner.
// SourceName always names the originating document, never a transient image file.
type Record struct {
	Text       string            `json:"text"`
	SourceName string            `json:"source_name"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// LoadedDocument is what the generic directory loader returns for a file (or a PDF page).
type LoadedDocument struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// VectorEntry is one row of the vector index.
type VectorEntry struct {
	ID        int64             `db:"id" json:"id"`
	NodeID    string            `db:"node_id" json:"node_id"`
	Text      string            `db:"text" json:"text"`
	Metadata  map[string]string `db:"metadata_" json:"metadata"`
	Embedding []float32         `db:"embedding" json:"-"` // pgvector column
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// SearchHit is a vector entry returned by a similarity query, with its L2 distance.
type SearchHit struct {
	NodeID   string            `json:"node_id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Distance float64           `json:"distance"`
}

// Metadata keys shared by the extractors and the loader.
const (
	MetaFileName   = "file_name"
	MetaFilePath   = "file_path"
	MetaFileType   = "file_type"
	MetaFileSize   = "file_size"
	MetaModified   = "last_modified_date"
	MetaPageLabel  = "page_label"
	MetaDocumentID = "document_id"
	MetaImageName  = "image_name"
	MetaKind       = "kind" // image_caption | extracted_text
	MetaChunk      = "chunk"
)
