package ingestion_engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Halcy0nic/Uplest/internal/core"
	objectclient "github.com/Halcy0nic/Uplest/internal/core/object-client"
	"github.com/Halcy0nic/Uplest/internal/models"
)

// ArtifactArchiver receives the files a run leaves behind.
type ArtifactArchiver interface {
	Archive(ctx context.Context, artifacts []objectclient.Artifact) error
}

// Summary reports what one run did.
type Summary struct {
	Files           int
	CustomRecords   int
	LoadedDocuments int
	Inserted        int
	Artifacts       int
}

// DocumentIngestor runs one ingest pass over a directory:
//
// loader:    generic directory loader, run first as a snapshot of the input.
// docx/pdf:  format-specific extractors producing text and image bytes.
// ocr:       best-effort OCR copy of each PDF.
// captioner: the single captioning capability for every image.
// sink:      embeds and inserts texts into the vector index.
// archiver:  optional; copies extracted images and OCR copies elsewhere.
type DocumentIngestor struct {
	cfg       *IngestConfig
	loader    Loader
	docx      *DocxExtractor
	pdf       *PDFExtractor
	ocr       *OCRPass
	captioner core.ImageCaptioner
	sink      Sink
	archiver  ArtifactArchiver
}

func NewDocumentIngestor(cfg *IngestConfig, loader Loader, docx *DocxExtractor, pdf *PDFExtractor, ocr *OCRPass, captioner core.ImageCaptioner, sink Sink) *DocumentIngestor {
	return &DocumentIngestor{
		cfg: cfg, loader: loader, docx: docx, pdf: pdf, ocr: ocr,
		captioner: captioner, sink: sink,
	}
}

// WithArchiver enables artifact archiving after insertion.
func (i *DocumentIngestor) WithArchiver(a ArtifactArchiver) *DocumentIngestor {
	i.archiver = a
	return i
}

// Run loads, extracts, captions and inserts. Any failure other than OCR aborts
// the run and leaves whatever was already written in place.
func (i *DocumentIngestor) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	loaded, err := i.loader.Load(ctx)
	if err != nil {
		return sum, fmt.Errorf("load directory: %w", err)
	}
	sum.LoadedDocuments = len(loaded)
	log.Printf("DocumentIngestor: generic loader read %d documents from %s", len(loaded), i.cfg.InputDir)

	acc, artifacts, files, err := i.Collect(ctx)
	if err != nil {
		return sum, err
	}
	sum.Files = files
	sum.CustomRecords = acc.Len()
	log.Printf("DocumentIngestor: %d records from %d files", acc.Len(), files)

	n, err := i.sink.InsertRecords(ctx, acc.Records())
	sum.Inserted += n
	if err != nil {
		return sum, err
	}
	n, err = i.sink.InsertLoaded(ctx, loaded)
	sum.Inserted += n
	if err != nil {
		return sum, err
	}
	log.Printf("DocumentIngestor: inserted %d entries", sum.Inserted)

	if i.archiver != nil {
		if err := i.archiver.Archive(ctx, artifacts); err != nil {
			return sum, err
		}
		sum.Artifacts = len(artifacts)
	}
	return sum, nil
}

// Collect runs the custom pipeline only: every DOCX, PDF and image in the
// input directory, dispatched by file name.
func (i *DocumentIngestor) Collect(ctx context.Context) (Accumulator, []objectclient.Artifact, int, error) {
	var (
		acc       Accumulator
		artifacts []objectclient.Artifact
		files     int
	)

	if err := os.MkdirAll(i.cfg.WorkDir, 0o755); err != nil {
		return acc, nil, 0, fmt.Errorf("create work dir: %w", err)
	}

	entries, err := os.ReadDir(i.cfg.InputDir)
	if err != nil {
		return acc, nil, 0, fmt.Errorf("read dir %s: %w", i.cfg.InputDir, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return acc, artifacts, files, err
		}
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(i.cfg.InputDir, name)

		var arts []objectclient.Artifact
		switch Classify(name) {
		case KindDocx:
			acc, arts, err = i.handleDocx(ctx, acc, path)
		case KindPDF:
			acc, arts, err = i.handlePDF(ctx, acc, path)
		case KindImage:
			acc, err = i.handleImage(ctx, acc, path)
		default:
			continue
		}
		if err != nil {
			return acc, artifacts, files, err
		}
		files++
		artifacts = append(artifacts, arts...)
	}
	return acc, artifacts, files, nil
}

func (i *DocumentIngestor) handleDocx(ctx context.Context, acc Accumulator, path string) (Accumulator, []objectclient.Artifact, error) {
	res, err := i.docx.Extract(ctx, path)
	if err != nil {
		return acc, nil, err
	}
	log.Printf("DocumentIngestor: %s has %d images", path, len(res.Images))

	var arts []objectclient.Artifact
	for _, img := range res.Images {
		rec, err := i.captioner.Caption(ctx, img.Data, res.Label())
		if err != nil {
			return acc, nil, err
		}
		acc = acc.Append(withSource(rec, path, res.DocID, img.Name))
		arts = append(arts, objectclient.Artifact{DocID: res.DocID, Path: img.Path})
	}

	if i.cfg.IncludeExtractedText {
		acc = acc.Append(textRecord(res.Text, res.Label(), path, res.DocID))
	}
	return acc, arts, nil
}

func (i *DocumentIngestor) handlePDF(ctx context.Context, acc Accumulator, path string) (Accumulator, []objectclient.Artifact, error) {
	var arts []objectclient.Artifact
	if i.cfg.OCREnabled && i.ocr != nil {
		docID, err := DocumentID(path)
		if err != nil {
			return acc, nil, err
		}
		dst := OCRPath(i.cfg.ocrDir(), docID, path)
		if i.ocr.Run(ctx, path, dst) {
			arts = append(arts, objectclient.Artifact{DocID: docID, Path: dst})
		}
	}

	res, err := i.pdf.Extract(ctx, path)
	if err != nil {
		return acc, nil, err
	}
	log.Printf("DocumentIngestor: %s has %d pages and %d images", path, res.Pages, len(res.Images))

	for _, img := range res.Images {
		rec, err := i.captioner.Caption(ctx, img.Data, path)
		if err != nil {
			return acc, nil, err
		}
		rec = withSource(rec, path, res.DocID, img.Name)
		if img.Page > 0 {
			rec.Metadata[models.MetaPageLabel] = strconv.Itoa(img.Page)
		}
		acc = acc.Append(rec)
	}

	// Page text is dropped unless asked for; only image captions represent a
	// PDF in the custom pipeline.
	if i.cfg.IncludeExtractedText {
		acc = acc.Append(textRecord(res.Text, path, path, res.DocID))
	}
	return acc, arts, nil
}

func (i *DocumentIngestor) handleImage(ctx context.Context, acc Accumulator, path string) (Accumulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return acc, fmt.Errorf("read image: %w", err)
	}
	docID, err := DocumentID(path)
	if err != nil {
		return acc, err
	}
	rec, err := i.captioner.Caption(ctx, data, path)
	if err != nil {
		return acc, err
	}
	return acc.Append(withSource(rec, path, docID, filepath.Base(path))), nil
}

func withSource(rec models.Record, path, docID, imageName string) models.Record {
	meta := copyMeta(rec.Metadata)
	meta[models.MetaFilePath] = path
	meta[models.MetaDocumentID] = docID
	if imageName != "" {
		meta[models.MetaImageName] = imageName
	}
	rec.Metadata = meta
	return rec
}

func textRecord(text, label, path, docID string) models.Record {
	return models.Record{
		Text:       text,
		SourceName: label,
		Metadata: map[string]string{
			models.MetaFileName:   label,
			models.MetaFilePath:   path,
			models.MetaDocumentID: docID,
			models.MetaKind:       "extracted_text",
		},
	}
}
