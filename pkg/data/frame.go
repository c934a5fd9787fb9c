package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// ColumnError reports a column lookup or conversion failure.
type ColumnError struct {
	Column string
	Row    int // 1-based data row, 0 when the column itself is missing
	Err    error
}

func (e *ColumnError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("data: column %q: %v", e.Column, e.Err)
	}
	return fmt.Sprintf("data: column %q row %d: %v", e.Column, e.Row, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// ErrColumnNotFound is wrapped by ColumnError when a header is missing.
var ErrColumnNotFound = errors.New("column not found")

// Frame is an in-memory CSV table: one header row and string cells.
type Frame struct {
	Header []string
	Rows   [][]string
}

// ReadFrame loads a whole CSV file.
func ReadFrame(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	f, err := DecodeFrame(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return f, nil
}

// DecodeFrame parses a header row followed by data rows.
func DecodeFrame(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	return &Frame{Header: rows[0], Rows: rows[1:]}, nil
}

// WriteFrame writes f to path. The parent directory must already exist.
func WriteFrame(path string, f *Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := f.Encode(file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Encode writes the header and rows as CSV.
func (f *Frame) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if err := cw.Write(f.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(f.Rows); err != nil {
		return err
	}
	return bw.Flush()
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	out := &Frame{Header: append([]string(nil), f.Header...), Rows: make([][]string, len(f.Rows))}
	for i, r := range f.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

// Len returns the number of data rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Index returns the position of column name.
func (f *Frame) Index(name string) (int, error) {
	for i, h := range f.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, &ColumnError{Column: name, Err: ErrColumnNotFound}
}

// Has reports whether column name exists.
func (f *Frame) Has(name string) bool {
	_, err := f.Index(name)
	return err == nil
}

// Strings returns a copy of column name.
func (f *Frame) Strings(name string) ([]string, error) {
	j, err := f.Index(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		if j >= len(row) {
			return nil, &ColumnError{Column: name, Row: i + 1, Err: fmt.Errorf("short row")}
		}
		out[i] = row[j]
	}
	return out, nil
}

// Floats parses column name as float64.
func (f *Frame) Floats(name string) ([]float64, error) {
	col, err := f.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, s := range col {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &ColumnError{Column: name, Row: i + 1, Err: err}
		}
		out[i] = v
	}
	return out, nil
}

// AddColumn appends a column; values must have one entry per row.
// An existing column with the same name is overwritten in place.
func (f *Frame) AddColumn(name string, values []string) error {
	if len(values) != len(f.Rows) {
		return &ColumnError{Column: name, Err: fmt.Errorf("got %d values for %d rows", len(values), len(f.Rows))}
	}
	if j, err := f.Index(name); err == nil {
		for i := range f.Rows {
			f.Rows[i][j] = values[i]
		}
		return nil
	}
	f.Header = append(f.Header, name)
	for i := range f.Rows {
		f.Rows[i] = append(f.Rows[i], values[i])
	}
	return nil
}

// AddFloatColumn formats values with prec decimals (-1 for shortest) and appends them.
func (f *Frame) AddFloatColumn(name string, values []float64, prec int) error {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = strconv.FormatFloat(v, 'f', prec, 64)
	}
	return f.AddColumn(name, s)
}

// SessionFrame lays records out as a Frame in session.Columns order.
func SessionFrame(records []session.Record) *Frame {
	f := &Frame{Header: append([]string(nil), session.Columns...), Rows: make([][]string, len(records))}
	for i, r := range records {
		f.Rows[i] = r.Row()
	}
	return f
}
