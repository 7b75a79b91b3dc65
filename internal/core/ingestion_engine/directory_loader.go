package ingestion_engine

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"

	"github.com/Halcy0nic/Uplest/internal/models"
)

// Loader reads a directory into documents independently of the custom pipeline.
type Loader interface {
	Load(ctx context.Context) ([]models.LoadedDocument, error)
}

// DirectoryLoader loads every non-hidden file in one directory. PDFs become
// one document per page; formats docconv knows go through it, other UTF-8
// files are read as plain text, and images and binaries are skipped.
type DirectoryLoader struct {
	dir     string
	pdfText PDFTextReader
}

func NewDirectoryLoader(dir string, pdfText PDFTextReader) *DirectoryLoader {
	return &DirectoryLoader{dir: dir, pdfText: pdfText}
}

func (l *DirectoryLoader) Load(ctx context.Context) ([]models.LoadedDocument, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", l.dir, err)
	}

	var docs []models.LoadedDocument
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(l.dir, name)
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		ext := strings.ToLower(filepath.Ext(name))
		mimeType := docconv.MimeTypeByExtension(ext)
		meta := fileMetadata(path, mimeType, info)

		switch {
		case ext == ".pdf":
			pages, err := l.pdfText.PageTexts(path)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
			for i, text := range pages {
				m := copyMeta(meta)
				m[models.MetaPageLabel] = strconv.Itoa(i + 1)
				docs = append(docs, models.LoadedDocument{Text: text, Metadata: m})
			}

		case strings.HasPrefix(mimeType, "image/"):
			log.Printf("DirectoryLoader: skipping %s (%s has no text converter)", path, mimeType)

		case mimeType == octetStream:
			// docconv maps only the formats it converts; .md, .csv, .json and
			// the like arrive here and are read as plain text.
			text, ok, err := readPlainText(path)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
			if !ok {
				log.Printf("DirectoryLoader: skipping %s (binary content)", path)
				continue
			}
			meta[models.MetaFileType] = "text/plain"
			docs = append(docs, models.LoadedDocument{Text: text, Metadata: meta})

		default:
			text, err := convertFile(path, mimeType)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
			docs = append(docs, models.LoadedDocument{Text: text, Metadata: meta})
		}
	}
	return docs, nil
}

const octetStream = "application/octet-stream"

// readPlainText reports whether the file holds UTF-8 text and returns it.
func readPlainText(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	if !utf8.Valid(data) || !strings.HasPrefix(http.DetectContentType(data), "text/") {
		return "", false, nil
	}
	return string(data), true, nil
}

func convertFile(path, mimeType string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	res, err := docconv.Convert(f, mimeType, false)
	if err != nil {
		return "", err
	}
	return res.Body, nil
}

func fileMetadata(path, mimeType string, info os.FileInfo) map[string]string {
	return map[string]string{
		models.MetaFilePath: path,
		models.MetaFileName: info.Name(),
		models.MetaFileType: mimeType,
		models.MetaFileSize: strconv.FormatInt(info.Size(), 10),
		models.MetaModified: info.ModTime().Format("2006-01-02"),
	}
}

func copyMeta(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
