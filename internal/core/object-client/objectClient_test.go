package objectclient

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

type memObjects struct {
	keys  []string
	types []string
	body  map[string]string
	fail  bool
}

func (m *memObjects) UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (string, error) {
	if m.fail {
		return "", errors.New("bucket gone")
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	if m.body == nil {
		m.body = map[string]string{}
	}
	m.keys = append(m.keys, key)
	m.types = append(m.types, contentType)
	m.body[key] = string(b)
	return "https://" + bucket + "/" + key, nil
}

func TestObjectKey(t *testing.T) {
	got := ObjectKey("run-1", "doc-9", "/tmp/work/doc-9/my image.png")
	if got != "runs/run-1/doc-9/my_image.png" {
		t.Errorf("ObjectKey = %q", got)
	}
}

func TestArchiver_Archive(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "image1.png")
	if err := os.WriteFile(img, []byte("pixels"), 0o644); err != nil {
		t.Fatal(err)
	}

	objs := &memObjects{}
	a := NewArchiver(objs, "uplest-runs", "run-1")
	if err := a.Archive(context.Background(), []Artifact{{DocID: "doc", Path: img}}); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if len(objs.keys) != 1 || objs.keys[0] != "runs/run-1/doc/image1.png" {
		t.Fatalf("keys = %v", objs.keys)
	}
	if objs.types[0] != "image/png" {
		t.Errorf("content type = %q, want image/png", objs.types[0])
	}
	if objs.body["runs/run-1/doc/image1.png"] != "pixels" {
		t.Errorf("body not uploaded")
	}
}

func TestArchiver_FailurePropagates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a-ocr.pdf")
	os.WriteFile(p, []byte("%PDF"), 0o644)

	a := NewArchiver(&memObjects{fail: true}, "b", "r")
	if err := a.Archive(context.Background(), []Artifact{{DocID: "d", Path: p}}); err == nil {
		t.Fatalf("expected upload failure to propagate")
	}
	if err := a.Archive(context.Background(), []Artifact{{DocID: "d", Path: filepath.Join(dir, "missing.png")}}); err == nil {
		t.Fatalf("expected missing file to fail")
	}
}
