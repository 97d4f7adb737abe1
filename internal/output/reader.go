package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/animus-cli/animus/internal/domain"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// ReadDocument loads a collection document from disk. A leading UTF-8 BOM
// is tolerated: this tool never writes one, but documents produced by the
// older PowerShell collectors sometimes carry it.
func ReadDocument(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}
