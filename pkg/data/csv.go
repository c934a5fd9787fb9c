// Package data reads and writes the tabular session dataset.
package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// WriteSessionsCSV serializes records to path with a header row in
// session.Columns order. The parent directory must already exist.
func WriteSessionsCSV(path string, records []session.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodeSessions(file, records); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// EncodeSessions writes the header and one row per record to w.
func EncodeSessions(w io.Writer, records []session.Record) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if err := cw.Write(session.Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadSessionsCSV parses a dataset written by WriteSessionsCSV. Columns are
// matched by header name, so extra columns (e.g. exported predictions) are ignored.
func ReadSessionsCSV(path string) ([]session.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	records, err := DecodeSessions(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// DecodeSessions parses sessions from r.
func DecodeSessions(r io.Reader) ([]session.Record, error) {
	frame, err := DecodeFrame(r)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(session.Columns))
	for i, name := range session.Columns {
		j, err := frame.Index(name)
		if err != nil {
			return nil, err
		}
		idx[i] = j
	}

	out := make([]session.Record, 0, frame.Len())
	row := make([]string, len(session.Columns))
	for n, raw := range frame.Rows {
		for i, j := range idx {
			row[i] = raw[j]
		}
		rec, err := session.ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ErrEmptyDataset is returned for a file without a header row, and by callers
// that need at least one data row.
var ErrEmptyDataset = errors.New("data: empty dataset")
