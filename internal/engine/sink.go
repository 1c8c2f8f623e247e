package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"snowflake-connector/internal/codec"
	"snowflake-connector/internal/schema"
	"snowflake-connector/internal/warehouse"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SinkStage receives the CSV files of a sink and loads them into a table.
type SinkStage interface {
	Upload(ctx context.Context, r io.Reader, name string) error
	CopyInto(ctx context.Context, table, copyOptions string) error
	RemoveDir(ctx context.Context) error
}

var _ SinkStage = (*warehouse.Stage)(nil)

// Sink buffers encoded records as CSV and uploads them in files of at most
// MaxFileSize bytes. A single record larger than the limit still gets its
// own file. MaxFileSize <= 0 means one file.
type Sink struct {
	Stage       SinkStage
	Schema      *schema.Record
	Table       string
	CopyOptions string
	MaxFileSize int64
	Logger      *zap.Logger

	buf     bytes.Buffer
	row     bytes.Buffer
	records int
	files   int
	total   int
}

// Write encodes rec and appends it to the current file.
func (s *Sink) Write(ctx context.Context, rec codec.Record) error {
	cells, err := codec.EncodeRecord(s.Schema, rec)
	if err != nil {
		return err
	}

	s.row.Reset()
	writeRow(&s.row, cells)

	if s.MaxFileSize > 0 && s.records > 0 && int64(s.buf.Len()+s.row.Len()) > s.MaxFileSize {
		if err := s.flush(ctx); err != nil {
			return err
		}
	}
	if s.buf.Len() == 0 {
		s.writeHeader()
	}
	s.buf.Write(s.row.Bytes())
	s.records++
	s.total++
	return nil
}

// Close uploads any buffered records.
func (s *Sink) Close(ctx context.Context) error {
	return s.flush(ctx)
}

// Commit loads every uploaded file into the table and drops the stage
// directory. The directory is dropped even when the load fails.
func (s *Sink) Commit(ctx context.Context) error {
	s.logger().Info("committing records",
		zap.String("table", s.Table), zap.Int("records", s.total), zap.Int("files", s.files))

	var errs []error
	if s.files > 0 {
		errs = append(errs, s.Stage.CopyInto(ctx, s.Table, s.CopyOptions))
	}
	if err := s.Stage.RemoveDir(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove stage dir: %w", err))
	}
	return errors.Join(errs...)
}

// Files reports how many files were uploaded so far.
func (s *Sink) Files() int { return s.files }

func (s *Sink) flush(ctx context.Context) error {
	if s.records == 0 {
		return nil
	}
	name := fmt.Sprintf("records_%s.csv", uuid.NewString())
	if err := s.Stage.Upload(ctx, bytes.NewReader(s.buf.Bytes()), name); err != nil {
		return err
	}
	s.logger().Debug("uploaded file", zap.String("file", name), zap.Int("records", s.records))
	s.files++
	s.records = 0
	s.buf.Reset()
	return nil
}

func (s *Sink) writeHeader() {
	cells := make([]codec.Cell, len(s.Schema.Fields))
	for i, f := range s.Schema.Fields {
		cells[i] = codec.Cell{Name: f.Name, Value: f.Name}
	}
	writeRow(&s.buf, cells)
}

func (s *Sink) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// writeRow writes one CSV line. Non-null values are always quoted; null is an
// empty bare cell.
func writeRow(b *bytes.Buffer, cells []codec.Cell) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		if c.Null {
			continue
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(c.Value, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
