package objectclient

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Halcy0nic/Uplest/internal/core"
)

// Artifact is a local file produced during a run (an extracted image or an OCR copy).
type Artifact struct {
	DocID string
	Path  string
}

// Archiver copies run artifacts to object storage under runs/<runID>/<docID>/.
type Archiver struct {
	obj    core.ObjectClient
	bucket string
	runID  string
}

func NewArchiver(obj core.ObjectClient, bucket, runID string) *Archiver {
	return &Archiver{obj: obj, bucket: bucket, runID: runID}
}

// ObjectKey creates a consistent S3 key layout.
func ObjectKey(runID, docID, filename string) string {
	filename = strings.TrimSpace(filepath.Base(filename))
	filename = strings.ReplaceAll(filename, " ", "_")
	return path.Join("runs", runID, docID, filename)
}

// Archive uploads every artifact and stops at the first failure.
func (a *Archiver) Archive(ctx context.Context, artifacts []Artifact) error {
	for _, art := range artifacts {
		if err := a.upload(ctx, art); err != nil {
			return err
		}
	}
	if len(artifacts) > 0 {
		log.Printf("Archiver: uploaded %d artifacts to s3://%s/runs/%s", len(artifacts), a.bucket, a.runID)
	}
	return nil
}

func (a *Archiver) upload(ctx context.Context, art Artifact) error {
	f, err := os.Open(art.Path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(art.Path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := ObjectKey(a.runID, art.DocID, art.Path)
	if _, err := a.obj.UploadFile(ctx, a.bucket, key, f, contentType); err != nil {
		return fmt.Errorf("archive %s: %w", art.Path, err)
	}
	return nil
}
