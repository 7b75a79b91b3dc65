package ingestion_engine

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

const docxMediaPrefix = "word/media/"

// ImageBlob is an image pulled out of a document, ready for captioning.
type ImageBlob struct {
	Name string
	Path string // on-disk copy; empty when the image was never written out
	Page int    // 1-based PDF page, 0 for DOCX
	Data []byte
}

// DocxResult is everything extracted from one DOCX file.
type DocxResult struct {
	Text    string
	Images  []ImageBlob
	DocName string // base name without extension
	DocID   string
	Dir     string
}

// Label is the source name given to records derived from this document.
func (r *DocxResult) Label() string { return r.DocName + ".docx" }

type DocxExtractor struct {
	baseImgDir string
}

func NewDocxExtractor(baseImgDir string) *DocxExtractor {
	return &DocxExtractor{baseImgDir: baseImgDir}
}

// Extract pulls the body text and every embedded image out of a DOCX file.
// Images are written to <baseImgDir>/<docID>/ before being returned.
func (e *DocxExtractor) Extract(ctx context.Context, docxPath string) (*DocxResult, error) {
	docName := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	docID, err := DocumentID(docxPath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(e.baseImgDir, docID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}

	text, err := docxText(docxPath)
	if err != nil {
		return nil, err
	}

	images, err := extractDocxImages(ctx, docxPath, dir)
	if err != nil {
		return nil, err
	}

	return &DocxResult{Text: text, Images: images, DocName: docName, DocID: docID, Dir: dir}, nil
}

func docxText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	text, _, err := docconv.ConvertDocx(f)
	if err != nil {
		return "", fmt.Errorf("docx text %s: %w", path, err)
	}
	return text, nil
}

func extractDocxImages(ctx context.Context, path, dir string) ([]ImageBlob, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx archive %s: %w", path, err)
	}
	defer zr.Close()

	var out []ImageBlob
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(f.Name, docxMediaPrefix) || f.FileInfo().IsDir() {
			continue
		}

		data, err := readZipEntry(f)
		if err != nil {
			return nil, fmt.Errorf("read %s from %s: %w", f.Name, path, err)
		}

		name := filepath.Base(f.Name)
		dst := filepath.Join(dir, name)
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return nil, fmt.Errorf("write image %s: %w", dst, err)
		}
		out = append(out, ImageBlob{Name: name, Path: dst, Data: data})
	}
	return out, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
