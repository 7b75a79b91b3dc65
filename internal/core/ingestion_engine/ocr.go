package ingestion_engine

import (
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandRunner executes an external program and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// OCRPass produces a text-layered copy of a PDF with ocrmypdf. It is best-effort:
// PDFs exported from office documents already carry text and make ocrmypdf fail.
type OCRPass struct {
	binary string
	run    CommandRunner
}

func NewOCRPass(binary string) *OCRPass {
	if binary == "" {
		binary = "ocrmypdf"
	}
	return &OCRPass{binary: binary, run: execRunner}
}

// Run never returns an error; it reports whether dst was written.
func (o *OCRPass) Run(ctx context.Context, src, dst string) bool {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		log.Printf("OCR: could not create %s: %v", filepath.Dir(dst), err)
		return false
	}

	out, err := o.run(ctx, o.binary, src, dst)
	if err != nil {
		log.Printf("Could not generate OCR for %s. This often indicates that the PDF was generated from an office document and does not need OCR (%v)", src, err)
		if msg := lastLine(out); msg != "" {
			log.Printf("OCR: %s", msg)
		}
		return false
	}
	return true
}

// OCRPath is where the OCR copy of pdfPath goes for a given document id.
func OCRPath(dir, docID, pdfPath string) string {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return filepath.Join(dir, docID+"-"+base+"-ocr.pdf")
}

func lastLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
