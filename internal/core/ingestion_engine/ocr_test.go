package ingestion_engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOCRPass_MissingBinary(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "ocr", "out.pdf")
	o := NewOCRPass(filepath.Join(t.TempDir(), "no-such-ocrmypdf"))
	if o.Run(context.Background(), "in.pdf", dst) {
		t.Fatal("Run reported success without a binary")
	}
}

func TestOCRPass_CommandFails(t *testing.T) {
	o := NewOCRPass("ocrmypdf")
	o.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("processing\nPriorOcrFoundError: page already has text!"), errors.New("exit status 6")
	}
	if o.Run(context.Background(), "in.pdf", filepath.Join(t.TempDir(), "out.pdf")) {
		t.Fatal("Run reported success for failing command")
	}
}

func TestOCRPass_Success(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := NewOCRPass("")
	o.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return nil, os.WriteFile(args[1], []byte("%PDF"), 0o644)
	}

	dst := filepath.Join(t.TempDir(), "ocr", "doc-notes-ocr.pdf")
	if !o.Run(context.Background(), "notes.pdf", dst) {
		t.Fatal("Run failed")
	}
	if gotName != "ocrmypdf" || len(gotArgs) != 2 || gotArgs[0] != "notes.pdf" || gotArgs[1] != dst {
		t.Errorf("ran %s %v", gotName, gotArgs)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestOCRPath(t *testing.T) {
	got := OCRPath("/work/ocr", "abc", "/data/notes.pdf")
	if got != filepath.Join("/work/ocr", "abc-notes-ocr.pdf") {
		t.Errorf("OCRPath = %q", got)
	}
}

func TestLastLine(t *testing.T) {
	if got := lastLine([]byte("one\ntwo\n")); got != "two" {
		t.Errorf("lastLine = %q", got)
	}
	if got := lastLine(nil); got != "" {
		t.Errorf("lastLine(nil) = %q", got)
	}
}
