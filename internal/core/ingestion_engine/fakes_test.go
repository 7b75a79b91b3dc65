package ingestion_engine

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Halcy0nic/Uplest/internal/models"
)

type fakeCaptioner struct {
	labels []string
	sizes  []int
	err    error
}

func (c *fakeCaptioner) Caption(ctx context.Context, image []byte, label string) (models.Record, error) {
	if c.err != nil {
		return models.Record{}, c.err
	}
	c.labels = append(c.labels, label)
	c.sizes = append(c.sizes, len(image))
	return models.Record{
		Text:       fmt.Sprintf("\nImage Name: %s\nDescription: picture %d\n\n", label, len(c.labels)),
		SourceName: label,
		Metadata: map[string]string{
			models.MetaFileName: label,
			models.MetaKind:     "image_caption",
		},
	}, nil
}

type fakeEmbedder struct {
	calls [][]string
	dim   int
	err   error
}

func (e *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.calls = append(e.calls, texts)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, e.dim)
		if e.dim > 0 {
			v[0] = float32(len(t))
		}
		out[i] = v
	}
	return out, nil
}

type memStore struct {
	mu      sync.Mutex
	entries []models.VectorEntry
	failAt  int // 1-based insert that fails; 0 never
}

func (s *memStore) InsertEntry(ctx context.Context, e *models.VectorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt > 0 && len(s.entries)+1 == s.failAt {
		return errors.New("insert rejected")
	}
	e.ID = int64(len(s.entries) + 1)
	s.entries = append(s.entries, *e)
	return nil
}

func (s *memStore) SearchEntries(ctx context.Context, q []float32, limit int) ([]models.SearchHit, error) {
	return nil, nil
}

func (s *memStore) CountEntries(ctx context.Context) (int64, error) {
	return int64(len(s.entries)), nil
}

func (s *memStore) Close() error { return nil }

type fakePDFText struct {
	pages map[string][]string
	err   error
}

func (f fakePDFText) PageTexts(path string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[filepath.Base(path)], nil
}

type fakePDFImages struct {
	images map[string][]ImageBlob
}

func (f fakePDFImages) Images(ctx context.Context, path string) ([]ImageBlob, error) {
	return f.images[filepath.Base(path)], nil
}

type fakeLoader struct {
	docs []models.LoadedDocument
	err  error
}

func (l fakeLoader) Load(ctx context.Context) ([]models.LoadedDocument, error) {
	return l.docs, l.err
}

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="png" ContentType="image/png"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxBodyFmt = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>%s</w:t></w:r></w:p></w:body></w:document>`

// writeDocx builds a minimal DOCX with the given body text and media files.
func writeDocx(t *testing.T, path, body string, media map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"word/document.xml", []byte(fmt.Sprintf(docxBodyFmt, body))},
	}
	for name, data := range media {
		parts = append(parts, struct {
			name string
			data []byte
		}{"word/media/" + name, data})
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(p.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}
