package cmd

import (
	"context"
	"fmt"
	"os"

	"snowflake-connector/internal/config"
	"snowflake-connector/internal/warehouse"

	"github.com/spf13/viper"
)

// GetActiveConnection returns the connection named by name, or the single
// connection marked active when name is empty.
func GetActiveConnection(name string) (*config.Connection, error) {
	var conns []config.Connection

	if err := viper.UnmarshalKey("connections", &conns); err != nil {
		return nil, fmt.Errorf("failed to parse connections config: %w", err)
	}

	if name != "" {
		for i := range conns {
			if conns[i].Name == name {
				return &conns[i], nil
			}
		}
		return nil, fmt.Errorf("no connection named '%s' found in config", name)
	}

	var active *config.Connection
	count := 0
	for i := range conns {
		if conns[i].Active {
			active = &conns[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active connection found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active connections found (only one can be active)")
	}
	return active, nil
}

// loadSection decodes the operation section key into out.
func loadSection(key string, out any) error {
	if err := viper.UnmarshalKey(key, out); err != nil {
		return fmt.Errorf("failed to parse %s config: %w", key, err)
	}
	return nil
}

// openWarehouse connects with the selected connection after validating it.
func openWarehouse(ctx context.Context, conn config.Connection) (*warehouse.Accessor, error) {
	var fs config.Failures
	config.ValidateConnection(conn, &fs)
	if err := fs.Err(); err != nil {
		return nil, err
	}
	acc, err := warehouse.Open(ctx, conn, Logger)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "Connected to %s (%s)\n", connLabel(conn), acc.Dialect.Name())
	return acc, nil
}

func connLabel(c config.Connection) string {
	if c.Name != "" {
		return c.Name
	}
	if c.AccountName != "" {
		return c.AccountName
	}
	return c.Driver
}
