package warehouse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// RowReader iterates a staged CSV file whose first line is the header.
type RowReader struct {
	header []string
	r      *csv.Reader
	close  []func() error
}

// NewRowReader reads the header from r. A file with no lines yields no rows.
func NewRowReader(r io.Reader) (*RowReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	return &RowReader{header: header, r: cr}, nil
}

// OpenRowFile opens a downloaded split; ".gz" files are decompressed.
func OpenRowFile(path string) (*RowReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open split file: %w", err)
	}

	var src io.Reader = f
	closers := []func() error{f.Close}
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		src = zr
		closers = append([]func() error{zr.Close}, closers...)
	}

	rr, err := NewRowReader(src)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}
	rr.close = closers
	return rr, nil
}

func (r *RowReader) Header() []string {
	return r.header
}

// Next returns the next row keyed by header name, or io.EOF.
func (r *RowReader) Next() (map[string]string, error) {
	if r.header == nil {
		return nil, io.EOF
	}
	line, err := r.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read row: %w", err)
	}
	if len(line) != len(r.header) {
		row, _ := r.r.FieldPos(0)
		return nil, fmt.Errorf("row at line %d has %d cells, header has %d", row, len(line), len(r.header))
	}

	out := make(map[string]string, len(line))
	for i, name := range r.header {
		out[name] = line[i]
	}
	return out, nil
}

func (r *RowReader) Close() error {
	var errs []error
	for _, c := range r.close {
		errs = append(errs, c())
	}
	r.close = nil
	return errors.Join(errs...)
}
