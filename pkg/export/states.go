package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AlbinSjoegren/SPV/internal/types"
)

// StateSink receives batch output rows in input order.
type StateSink interface {
	WriteState(s types.StarState) error
	Close() error
}

// NewStateSink creates the file at path and picks the encoding from its
// extension: ".jsonl" writes one JSON object per line, anything else CSV.
func NewStateSink(path string) (StateSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return &JSONLStateWriter{f: f, bw: bufio.NewWriter(f)}, nil
	}
	w := &CSVStateWriter{f: f, cw: csv.NewWriter(f)}
	if err := w.cw.Write(StateHeader); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// StateHeader is the column layout of CSV batch output.
var StateHeader = []string{"hip", "name", "x", "y", "z", "vx", "vy", "vz"}

// CSVStateWriter writes batch rows as CSV.
type CSVStateWriter struct {
	f  *os.File
	cw *csv.Writer
}

func (w *CSVStateWriter) WriteState(s types.StarState) error {
	return w.cw.Write([]string{
		strconv.FormatUint(uint64(s.HIP), 10),
		s.Name,
		formatFloat(s.Position.X), formatFloat(s.Position.Y), formatFloat(s.Position.Z),
		formatFloat(s.Velocity.X), formatFloat(s.Velocity.Y), formatFloat(s.Velocity.Z),
	})
}

func (w *CSVStateWriter) Close() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// JSONLStateWriter writes batch rows as JSON lines.
type JSONLStateWriter struct {
	f  *os.File
	bw *bufio.Writer
}

func (w *JSONLStateWriter) WriteState(s types.StarState) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

// Close flushes buffered rows and closes the file. The file is closed even
// when the flush fails; the flush error wins.
func (w *JSONLStateWriter) Close() error {
	var flushErr error
	if w.bw != nil {
		flushErr = w.bw.Flush()
	}
	if w.f == nil {
		return flushErr
	}
	closeErr := w.f.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
