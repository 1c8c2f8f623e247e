package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"snowflake-connector/internal/config"
	"snowflake-connector/internal/dialect"

	sf "github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"
)

// Application is reported to Snowflake as the client application name.
const Application = "snowflake-connector"

// Open connects to the warehouse described by c and verifies the session.
func Open(ctx context.Context, c config.Connection, logger *zap.Logger) (*Accessor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		db  *sql.DB
		err error
	)
	if c.IsSnowflake() {
		var cfg *sf.Config
		cfg, err = SnowflakeConfig(ctx, c)
		if err != nil {
			return nil, err
		}
		db = sql.OpenDB(sf.NewConnector(sf.SnowflakeDriver{}, *cfg))
	} else {
		db, err = OpenDSN(c.Driver, c.DSN)
		if err != nil {
			return nil, err
		}
	}

	a := NewAccessor(db, dialect.GetDialect(c.Driver), logger)
	if err := a.CheckConnection(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("connected", zap.String("driver", a.Dialect.Name()), zap.String("account", c.AccountName))
	return a, nil
}

// OpenDSN opens a non-Snowflake database through its registered driver.
func OpenDSN(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return db, nil
}

// SnowflakeConfig builds the driver configuration for c, resolving key pair
// or OAuth2 credentials.
func SnowflakeConfig(ctx context.Context, c config.Connection) (*sf.Config, error) {
	extra, err := c.ExtraParams()
	if err != nil {
		return nil, err
	}
	params := make(map[string]*string, len(extra))
	for k, v := range extra {
		v := v
		params[k] = &v
	}

	cfg := &sf.Config{
		Account:     c.AccountName,
		User:        c.Username,
		Database:    c.Database,
		Schema:      c.SchemaName,
		Warehouse:   c.Warehouse,
		Role:        c.Role,
		Application: Application,
		Params:      params,
	}

	switch {
	case c.OAuth2Enabled:
		token, err := FetchAccessToken(ctx, TokenURL(c.AccountName), c.ClientID, c.ClientSecret, c.RefreshToken)
		if err != nil {
			return nil, err
		}
		cfg.Authenticator = sf.AuthTypeOAuth
		cfg.Token = token
	case c.KeyPairEnabled:
		key, err := ParsePrivateKey(c.PrivateKey, c.Passphrase)
		if err != nil {
			return nil, err
		}
		cfg.Authenticator = sf.AuthTypeJwt
		cfg.PrivateKey = key
	default:
		cfg.Password = c.Password
	}
	return cfg, nil
}
