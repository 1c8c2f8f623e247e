package action

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"snowflake-connector/internal/config"

	"go.uber.org/zap"
)

const redacted = "***"

// Executor runs a single statement. *sql.DB satisfies it.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Load validates c and runs its COPY statement.
func Load(ctx context.Context, exec Executor, c config.LoadConfig, logger *zap.Logger) error {
	var fs config.Failures
	config.ValidateLoad(c, &fs)
	if err := fs.Err(); err != nil {
		return err
	}
	stmt, err := LoadStatement(c)
	if err != nil {
		return err
	}
	return Run(ctx, exec, stmt, secrets(c.CopySettings), logger)
}

// Unload validates c and runs its COPY statement.
func Unload(ctx context.Context, exec Executor, c config.UnloadConfig, logger *zap.Logger) error {
	var fs config.Failures
	config.ValidateUnload(c, &fs)
	if err := fs.Err(); err != nil {
		return err
	}
	stmt, err := UnloadStatement(c)
	if err != nil {
		return err
	}
	return Run(ctx, exec, stmt, secrets(c.CopySettings), logger)
}

// Run executes statement, logging it with every secret replaced.
func Run(ctx context.Context, exec Executor, statement string, secrets []string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("running query", zap.String("query", Redact(statement, secrets)))
	if _, err := exec.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("failed to run copy: %w", err)
	}
	return nil
}

// Redact replaces each occurrence of the given secrets in s.
func Redact(s string, secrets []string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return s
}
