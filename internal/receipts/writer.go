package receipts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chasemcdermott/stablecoin-sui-sub000/internal/sui"
)

const timestampLayout = "20060102-150405"

// Writer persists transaction receipts under a logs directory, one
// timestamped JSON file per successful mutating run.
type Writer struct {
	dir string
	now func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock overrides the timestamp source (for tests).
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// NewWriter creates a receipt writer rooted at dir.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write stores the full receipt as <operation>-<timestamp>.json and
// returns the file path. The node's raw response is preserved when the
// receipt carries one.
func (w *Writer) Write(operation string, resp *sui.TransactionResponse) (string, error) {
	if err := os.MkdirAll(w.dir, 0o700); err != nil {
		return "", fmt.Errorf("creating logs dir: %w", err)
	}

	var data []byte
	if len(resp.Raw) > 0 {
		var buf json.RawMessage = resp.Raw
		indented, err := json.MarshalIndent(buf, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding receipt: %w", err)
		}
		data = indented
	} else {
		var err error
		data, err = json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding receipt: %w", err)
		}
	}

	name := fmt.Sprintf("%s-%s.json", operation, w.now().UTC().Format(timestampLayout))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing receipt: %w", err)
	}
	return path, nil
}
