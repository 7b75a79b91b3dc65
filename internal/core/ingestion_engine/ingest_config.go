package ingestion_engine

import "path/filepath"

// IngestConfig tunes one ingest run.
//
// InputDir:             directory scanned (non-recursively) for documents.
// WorkDir:              root for per-document image directories and OCR copies.
// OCREnabled:           run the OCR pass before PDF extraction.
// OCRBinary:            ocrmypdf executable.
// IncludeExtractedText: also record DOCX body text and PDF page text, which
//                       are otherwise extracted and dropped.
// TargetTokens:         approximate tokens per indexed chunk (e.g., 1024).
// OverlapTokens:        token overlap between consecutive chunks (e.g., 20).
type IngestConfig struct {
	InputDir             string
	WorkDir              string
	OCREnabled           bool
	OCRBinary            string
	IncludeExtractedText bool
	TargetTokens         int
	OverlapTokens        int
}

func (c *IngestConfig) ocrDir() string {
	return filepath.Join(c.WorkDir, "ocr")
}
