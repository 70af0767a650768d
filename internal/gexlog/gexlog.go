package gexlog

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"spx-gex/internal/interfaces"
	"spx-gex/internal/types"
)

var mu sync.Mutex

// AppendRow appends one CSV row to path, writing header first when the
// file does not exist yet. Keys of row that are not in header are rejected
// before anything is written; header columns missing from row are empty.
func AppendRow(path string, header []string, row map[string]string) error {
	if extra := unknownKeys(header, row); len(extra) > 0 {
		return eris.Errorf("gexlog: fields not in header: %s", strings.Join(extra, ", "))
	}
	rec := make([]string, len(header))
	for i, col := range header {
		rec[i] = row[col]
	}

	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "gexlog: create data dir")
	}
	_, err := os.Stat(path)
	fresh := errors.Is(err, os.ErrNotExist)
	if err != nil && !fresh {
		return eris.Wrap(err, "gexlog: stat log")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return eris.Wrap(err, "gexlog: open log")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(header); err != nil {
			return eris.Wrap(err, "gexlog: write header")
		}
	}
	if err := w.Write(rec); err != nil {
		return eris.Wrap(err, "gexlog: write row")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "gexlog: flush")
	}
	if err := f.Sync(); err != nil {
		return eris.Wrap(err, "gexlog: sync")
	}
	return eris.Wrap(f.Close(), "gexlog: close")
}

func unknownKeys(header []string, row map[string]string) []string {
	known := make(map[string]struct{}, len(header))
	for _, col := range header {
		known[col] = struct{}{}
	}
	var extra []string
	for k := range row {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

// CSVSink appends extraction records to the gamma log.
type CSVSink struct {
	path string
}

var _ interfaces.RecordSink = (*CSVSink)(nil)

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Path() string { return s.path }

func (s *CSVSink) Write(ctx context.Context, rec types.ExtractionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return AppendRow(s.path, types.RecordHeader, rec.Row())
}
