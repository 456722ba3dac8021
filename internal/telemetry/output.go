package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Output file names.
const (
	TicksFile   = "ticks.csv"
	SummaryFile = "summary.csv"
)

// Writer streams tick records to ticks.csv in a run directory. A nil
// *Writer discards everything, so callers need not check whether output
// is enabled.
type Writer struct {
	dir   string
	ticks *os.File

	headerWritten bool
}

// NewWriter creates dir and opens ticks.csv inside it. It returns nil
// when dir is empty (output disabled).
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, TicksFile))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", TicksFile, err)
	}
	return &Writer{dir: dir, ticks: f}, nil
}

// Record appends one tick record. The first write carries the CSV header.
func (w *Writer) Record(rec TickRecord) error {
	if w == nil {
		return nil
	}
	records := []TickRecord{rec}

	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.ticks); err != nil {
			return fmt.Errorf("writing ticks: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.ticks); err != nil {
		return fmt.Errorf("writing ticks: %w", err)
	}
	return nil
}

// WriteSummary writes summary.csv, replacing any previous one.
func (w *Writer) WriteSummary(summaries []Summary) error {
	if w == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(w.dir, SummaryFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", SummaryFile, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(summaries, f); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// Dir returns the output directory, or "" for a nil writer.
func (w *Writer) Dir() string {
	if w == nil {
		return ""
	}
	return w.dir
}

// Close closes the tick file.
func (w *Writer) Close() error {
	if w == nil || w.ticks == nil {
		return nil
	}
	return w.ticks.Close()
}
