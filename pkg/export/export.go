package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Exporter writes printable receipt documents to local storage so a
// terminal can offer a download even when no printer is attached.
type Exporter struct {
	baseDir string
}

// NewExporter creates an exporter rooted at baseDir. The directory is
// created on first save, not here, so a misconfigured path fails at the
// point of use with a clear error.
func NewExporter(baseDir string) *Exporter {
	return &Exporter{baseDir: baseDir}
}

// SaveDocument writes a document under baseDir/receipts/YYYY-MM-DD/ and
// returns its full path. Name should be unique per receipt (the receipt
// number is a good choice).
func (e *Exporter) SaveDocument(name string, contents []byte) (string, error) {
	if e.baseDir == "" {
		return "", fmt.Errorf("export: storage path is not configured")
	}

	dir := filepath.Join(e.baseDir, "receipts", time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+".txt")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return "", fmt.Errorf("export: failed to write %s: %w", path, err)
	}

	return path, nil
}
