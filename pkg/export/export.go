// Package export persists calculator results. The JSON writer follows the
// calculator's historical layout of one pretty-printed file per quantity in
// a "<name>_json" directory.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AlbinSjoegren/SPV/internal/types"
)

// Formats accepted by New.
const (
	FormatJSON   = "json"
	FormatText   = "txt"
	FormatCSV    = "csv"
	FormatStdout = "stdout"
)

// Writer persists a set of results under a target name.
type Writer interface {
	Write(name string, results ...types.Result) error
}

// New returns the writer for format. Files are created under dir; stdout
// is used by FormatStdout.
func New(format, dir string, stdout io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return JSONWriter{Dir: dir}, nil
	case FormatText:
		return TextWriter{Dir: dir}, nil
	case FormatCSV:
		return CSVWriter{Dir: dir}, nil
	case FormatStdout, "":
		return StdoutWriter{W: stdout}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// Slug turns a target name into a path component.
func Slug(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unnamed"
	}
	return strings.ReplaceAll(name, " ", "_")
}

func targetDir(dir, name, suffix string) (string, error) {
	path := filepath.Join(dir, Slug(name)+"_"+suffix)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return path, nil
}

// JSONWriter writes <Dir>/<name>_json/<quantity>.json.
type JSONWriter struct {
	Dir string
}

func (w JSONWriter) Write(name string, results ...types.Result) error {
	dir, err := targetDir(w.Dir, name, FormatJSON)
	if err != nil {
		return err
	}
	for _, r := range results {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", r.Quantity, err)
		}
		path := filepath.Join(dir, string(r.Quantity)+".json")
		if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// TextWriter writes <Dir>/<name>_txt/<quantity>.txt with one row per line.
type TextWriter struct {
	Dir string
}

func (w TextWriter) Write(name string, results ...types.Result) error {
	dir, err := targetDir(w.Dir, name, FormatText)
	if err != nil {
		return err
	}
	for _, r := range results {
		var b strings.Builder
		if err := writeText(&b, r); err != nil {
			return err
		}
		path := filepath.Join(dir, string(r.Quantity)+".txt")
		if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// CSVWriter writes every result into <Dir>/<name>.csv.
type CSVWriter struct {
	Dir string
}

func (w CSVWriter) Write(name string, results ...types.Result) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(w.Dir, Slug(name)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, results...); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// WriteCSV writes results as quantity,unit,label,x,y,z rows.
func WriteCSV(out io.Writer, results ...types.Result) error {
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"quantity", "unit", "label", "x", "y", "z"}); err != nil {
		return err
	}
	for _, r := range results {
		rows, err := r.Rows()
		if err != nil {
			return err
		}
		for _, row := range rows {
			rec := []string{string(r.Quantity), r.Unit, row.Label, "", "", ""}
			for i, v := range row.Values {
				if i < 3 {
					rec[3+i] = formatFloat(v)
				}
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// StdoutWriter prints results in human-readable form.
type StdoutWriter struct {
	W io.Writer
}

func (w StdoutWriter) Write(name string, results ...types.Result) error {
	if name != "" {
		if _, err := fmt.Fprintf(w.W, "# %s\n", name); err != nil {
			return err
		}
	}
	for _, r := range results {
		if err := writeText(w.W, r); err != nil {
			return err
		}
	}
	return nil
}

func writeText(out io.Writer, r types.Result) error {
	rows, err := r.Rows()
	if err != nil {
		return err
	}
	header := string(r.Quantity)
	if r.Unit != "" {
		header += " [" + r.Unit + "]"
	}
	if _, err := fmt.Fprintln(out, header); err != nil {
		return err
	}
	for _, row := range rows {
		fields := make([]string, 0, len(row.Values)+1)
		if row.Label != "" {
			fields = append(fields, row.Label)
		}
		for _, v := range row.Values {
			fields = append(fields, formatFloat(v))
		}
		if _, err := fmt.Fprintln(out, "  "+strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
