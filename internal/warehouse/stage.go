package warehouse

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"snowflake-connector/internal/dialect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage prefixes for the two transfer directions.
const (
	SourcePrefix = "result"
	SinkPrefix   = "sinkoutput"
)

// Stage is a unique directory in the user stage used by one transfer.
type Stage struct {
	acc  *Accessor
	Path string
}

// NewStage reserves a fresh stage directory named after prefix.
func NewStage(a *Accessor, prefix string) *Stage {
	return &Stage{
		acc:  a,
		Path: fmt.Sprintf("%s/stage/%s%s/", dialect.UserStage, prefix, uuid.NewString()),
	}
}

// Unload copies the result of query into the stage and returns the staged
// file names. Each name is one split.
func (s *Stage) Unload(ctx context.Context, query string, maxFileSize int64) ([]string, error) {
	s.acc.Logger.Info("unloading query into stage", zap.String("stage", s.Path))
	if err := s.acc.Exec(ctx, dialect.UnloadToStageQuery(s.Path, query, maxFileSize)); err != nil {
		return nil, fmt.Errorf("failed to unload query: %w", err)
	}

	splits, err := s.acc.QueryColumn(ctx, dialect.ListStageQuery(s.Path), "name")
	if err != nil {
		return nil, fmt.Errorf("failed to list stage: %w", err)
	}
	s.acc.Logger.Info("stage listed", zap.String("stage", s.Path), zap.Int("splits", len(splits)))
	return splits, nil
}

// Open downloads one split into a temporary directory and returns a reader
// over its rows. Closing the reader removes the local copy.
func (s *Stage) Open(ctx context.Context, split string) (*RowReader, error) {
	dir, err := os.MkdirTemp("", "sfc-split-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	if err := s.acc.Exec(ctx, dialect.GetStageFileQuery(split, dir)); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to download split '%s': %w", split, err)
	}

	rr, err := OpenRowFile(filepath.Join(dir, path.Base(split)))
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	rr.close = append(rr.close, func() error { return os.RemoveAll(dir) })
	return rr, nil
}

// Remove deletes one split from the user stage.
func (s *Stage) Remove(ctx context.Context, split string) error {
	return s.acc.Exec(ctx, dialect.RemoveStageFileQuery(split))
}

// Upload writes r to a local file called name and puts it into the stage.
func (s *Stage) Upload(ctx context.Context, r io.Reader, name string) error {
	dir, err := os.MkdirTemp("", "sfc-upload-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	local := filepath.Join(dir, name)
	f, err := os.Create(local)
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write upload file: %w", err)
	}

	s.acc.Logger.Debug("uploading file", zap.String("file", name), zap.String("stage", s.Path))
	if err := s.acc.Exec(ctx, dialect.PutFileQuery(local, s.Path)); err != nil {
		return fmt.Errorf("failed to upload '%s': %w", name, err)
	}
	return nil
}

// CopyInto loads every staged file into table.
func (s *Stage) CopyInto(ctx context.Context, table, copyOptions string) error {
	s.acc.Logger.Info("copying stage into table", zap.String("stage", s.Path), zap.String("table", table))
	if err := s.acc.Exec(ctx, dialect.CopyIntoTableQuery(table, s.Path, copyOptions)); err != nil {
		return fmt.Errorf("failed to copy into '%s': %w", table, err)
	}
	return nil
}

// RemoveDir deletes the whole stage directory.
func (s *Stage) RemoveDir(ctx context.Context) error {
	return s.acc.Exec(ctx, dialect.RemovePathQuery(s.Path))
}
