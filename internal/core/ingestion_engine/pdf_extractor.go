package ingestion_engine

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"rsc.io/pdf"
)

// PDFTextReader returns the text of every page, in page order.
type PDFTextReader interface {
	PageTexts(path string) ([]string, error)
}

// PDFImageSource returns the raw bytes of every image embedded in a PDF.
type PDFImageSource interface {
	Images(ctx context.Context, path string) ([]ImageBlob, error)
}

// PDFResult is everything extracted from one PDF file.
type PDFResult struct {
	Text   string
	Pages  int
	Images []ImageBlob
	DocID  string
}

type PDFExtractor struct {
	text   PDFTextReader
	images PDFImageSource
}

func NewPDFExtractor(text PDFTextReader, images PDFImageSource) *PDFExtractor {
	return &PDFExtractor{text: text, images: images}
}

// Extract concatenates page text and collects every embedded image.
func (e *PDFExtractor) Extract(ctx context.Context, pdfPath string) (*PDFResult, error) {
	docID, err := DocumentID(pdfPath)
	if err != nil {
		return nil, err
	}

	pages, err := e.text.PageTexts(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("pdf text %s: %w", pdfPath, err)
	}

	images, err := e.images.Images(ctx, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("pdf images %s: %w", pdfPath, err)
	}

	return &PDFResult{
		Text:   strings.Join(pages, ""),
		Pages:  len(pages),
		Images: images,
		DocID:  docID,
	}, nil
}

// RSCTextReader reads page text with rsc.io/pdf.
type RSCTextReader struct{}

func (RSCTextReader) PageTexts(path string) (pages []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	// rsc.io/pdf panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(f, st.Size())
	if err != nil {
		return nil, err
	}

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, joinPageText(p.Content().Text))
	}
	return pages, nil
}

// joinPageText rebuilds lines from positioned glyph runs: a change of
// baseline starts a new line and every page ends with a newline.
func joinPageText(runs []pdf.Text) string {
	if len(runs) == 0 {
		return ""
	}
	var b strings.Builder
	prevY := runs[0].Y
	for i, t := range runs {
		if i > 0 && math.Abs(t.Y-prevY) > t.FontSize/2 {
			b.WriteByte('\n')
		}
		b.WriteString(t.S)
		prevY = t.Y
	}
	b.WriteByte('\n')
	return b.String()
}

// PDFCPUImages extracts embedded image streams with pdfcpu.
type PDFCPUImages struct {
	conf *model.Configuration
}

func NewPDFCPUImages() *PDFCPUImages {
	api.DisableConfigDir()
	return &PDFCPUImages{conf: model.NewDefaultConfiguration()}
}

func (s *PDFCPUImages) Images(ctx context.Context, path string) ([]ImageBlob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []ImageBlob
	digest := func(img model.Image, _ bool, _ int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := io.ReadAll(img)
		if err != nil {
			return fmt.Errorf("read image %s on page %d: %w", img.Name, img.PageNr, err)
		}
		name := img.Name
		if img.FileType != "" {
			name += "." + img.FileType
		}
		out = append(out, ImageBlob{Name: name, Page: img.PageNr, Data: data})
		return nil
	}

	if err := api.ExtractImages(f, nil, digest, s.conf); err != nil {
		return nil, err
	}
	return out, nil
}
