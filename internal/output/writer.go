package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/animus-cli/animus/internal/domain"
)

// Writer serializes collection documents to disk. Writes are atomic:
// content goes to a temp file in the destination directory and is renamed
// into place, so a failed run never leaves a partial file.
type Writer struct {
	enc func(v any) ([]byte, error)
}

// NewWriter creates a document writer
func NewWriter() *Writer {
	return &Writer{enc: encode}
}

// WriteDocument writes the full collection document. If the document cannot
// be serialized or fails round-trip validation, a minimal document with
// collection metadata and empty event lists is written instead; the
// returned bool reports that fallback. Some valid output beats no output.
func (w *Writer) WriteDocument(path string, doc *domain.Document) (fellBack bool, err error) {
	data, err := w.enc(doc)
	if err != nil {
		minimal := MinimalDocument(doc.CollectionInfo)
		data, err = encode(minimal)
		if err != nil {
			return true, fmt.Errorf("minimal document fallback failed: %w", err)
		}
		fellBack = true
	}
	if err := writeAtomic(path, data); err != nil {
		return fellBack, err
	}
	return fellBack, nil
}

// WriteSummary writes the aggregated summary document with the same
// atomic-write and fallback discipline.
func (w *Writer) WriteSummary(path string, sum *domain.SummaryDocument) (fellBack bool, err error) {
	data, err := w.enc(sum)
	if err != nil {
		minimal := MinimalDocument(sum.CollectionInfo)
		data, err = encode(minimal)
		if err != nil {
			return true, fmt.Errorf("minimal document fallback failed: %w", err)
		}
		fellBack = true
	}
	if err := writeAtomic(path, data); err != nil {
		return fellBack, err
	}
	return fellBack, nil
}

// MinimalDocument is the degraded document written when full serialization
// fails: collection metadata plus empty event lists.
func MinimalDocument(info domain.CollectionInfo) *domain.Document {
	return &domain.Document{
		CollectionInfo: info,
		SystemInfo:     domain.SystemInfo{Disks: []domain.DiskInfo{}},
		Events:         domain.NewEvents(),
	}
}

// encode marshals and verifies the bytes parse back before anything is
// committed to disk
func encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	var check any
	if err := json.Unmarshal(data, &check); err != nil {
		return nil, fmt.Errorf("serialized document failed validation: %w", err)
	}
	return data, nil
}

// writeAtomic writes UTF-8 without a BOM via temp-file-and-rename,
// creating missing parent directories
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".animus-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("moving document into place: %w", err)
	}
	return nil
}
