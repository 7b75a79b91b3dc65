package ingestion_engine

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// DocumentID derives a stable identifier from a file's absolute path, so two
// inputs that share a base name never share a working directory.
func DocumentID(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(abs))).String(), nil
}
