package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"snowflake-connector/internal/codec"
	"snowflake-connector/internal/schema"
	"snowflake-connector/internal/warehouse"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultParallelism = 4

// Result status values.
const (
	StatusOK     = "OK"
	StatusFailed = "FAILED"
)

// Result reports how one split was transferred.
type Result struct {
	Split    string
	Rows     int
	Status   string
	ErrorMsg string
}

// Rows iterates the header-keyed rows of one split.
type Rows interface {
	Next() (map[string]string, error)
	Close() error
}

// SplitReader opens and discards staged splits.
type SplitReader interface {
	Open(ctx context.Context, split string) (Rows, error)
	Remove(ctx context.Context, split string) error
}

type stageSplits struct {
	stage *warehouse.Stage
}

// StageSplits reads splits from a warehouse stage.
func StageSplits(s *warehouse.Stage) SplitReader {
	return stageSplits{stage: s}
}

func (s stageSplits) Open(ctx context.Context, split string) (Rows, error) {
	rr, err := s.stage.Open(ctx, split)
	if err != nil {
		return nil, err
	}
	return rr, nil
}

func (s stageSplits) Remove(ctx context.Context, split string) error {
	return s.stage.Remove(ctx, split)
}

// Source decodes staged splits into records.
type Source struct {
	Splits      SplitReader
	Schema      *schema.Record
	Parallelism int
	Logger      *zap.Logger
}

// Run reads every split, calling emit once per decoded record. emit is never
// called concurrently. onProgress, if set, is called after each finished
// split. The first failure cancels the remaining splits; results are
// returned for every split either way.
func (s *Source) Run(ctx context.Context, splits []string, emit func(codec.Record) error, onProgress func()) ([]Result, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := s.Parallelism
	if limit <= 0 {
		limit = DefaultParallelism
	}

	results := make([]Result, len(splits))
	var emitMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, split := range splits {
		results[i] = Result{Split: split}
		g.Go(func() error {
			n, err := s.readSplit(gctx, split, func(rec codec.Record) error {
				emitMu.Lock()
				defer emitMu.Unlock()
				return emit(rec)
			})
			results[i].Rows = n
			if err != nil {
				results[i].Status = StatusFailed
				results[i].ErrorMsg = err.Error()
				logger.Error("split failed", zap.String("split", split), zap.Error(err))
				return fmt.Errorf("failed to read split '%s': %w", split, err)
			}
			results[i].Status = StatusOK
			logger.Debug("split done", zap.String("split", split), zap.Int("rows", n))
			if onProgress != nil {
				onProgress()
			}
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

func (s *Source) readSplit(ctx context.Context, split string, emit func(codec.Record) error) (int, error) {
	rows, err := s.Splits.Open(ctx, split)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	dec := codec.NewDecoder(s.Schema)
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, err
		}
		rec, err := dec.DecodeRow(row)
		if err != nil {
			return n, err
		}
		if err := emit(rec); err != nil {
			return n, err
		}
		n++
	}

	if err := s.Splits.Remove(ctx, split); err != nil {
		return n, fmt.Errorf("failed to remove split: %w", err)
	}
	return n, nil
}
