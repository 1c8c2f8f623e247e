package config

import (
	"fmt"
	"strings"
)

// Configuration keys of a warehouse connection.
const (
	PropertyAccountName         = "accountName"
	PropertyDatabase            = "database"
	PropertySchemaName          = "schemaName"
	PropertyWarehouse           = "warehouse"
	PropertyRole                = "role"
	PropertyUsername            = "username"
	PropertyPassword            = "password"
	PropertyKeyPairEnabled      = "keyPairEnabled"
	PropertyPrivateKey          = "privateKey"
	PropertyPassphrase          = "passphrase"
	PropertyOAuth2Enabled       = "oauth2Enabled"
	PropertyClientID            = "clientId"
	PropertyClientSecret        = "clientSecret"
	PropertyRefreshToken        = "refreshToken"
	PropertyConnectionArguments = "connectionArguments"
)

// Connection holds everything needed to open a warehouse session. It is
// embedded by every operation config.
type Connection struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"` // snowflake (default), postgres, mysql, sqlserver, oracle
	DSN    string `mapstructure:"dsn"`    // Used as-is for non-Snowflake drivers
	Active bool   `mapstructure:"active"`

	AccountName string `mapstructure:"accountName"`
	Database    string `mapstructure:"database"`
	SchemaName  string `mapstructure:"schemaName"`
	Warehouse   string `mapstructure:"warehouse"`
	Role        string `mapstructure:"role"`

	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	KeyPairEnabled bool   `mapstructure:"keyPairEnabled"`
	PrivateKey     string `mapstructure:"privateKey"` // PEM, PKCS#8
	Passphrase     string `mapstructure:"passphrase"`

	OAuth2Enabled bool   `mapstructure:"oauth2Enabled"`
	ClientID      string `mapstructure:"clientId"`
	ClientSecret  string `mapstructure:"clientSecret"`
	RefreshToken  string `mapstructure:"refreshToken"`

	// ConnectionArguments is "key1:value1,key2:value2".
	ConnectionArguments string            `mapstructure:"connectionArguments"`
	Params              map[string]string `mapstructure:"params"`
}

// IsSnowflake reports whether the connection targets Snowflake.
func (c Connection) IsSnowflake() bool {
	return c.Driver == "" || c.Driver == "snowflake"
}

// ExtraParams merges Params with the parsed connection arguments. Connection
// arguments win on conflicts.
func (c Connection) ExtraParams() (map[string]string, error) {
	args, err := ParseConnectionArguments(c.ConnectionArguments)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(c.Params)+len(args))
	for k, v := range c.Params {
		out[k] = v
	}
	for k, v := range args {
		out[k] = v
	}
	return out, nil
}

// ParseConnectionArguments parses "key1:value1,key2:value2". Only the first
// colon of each pair separates key from value.
func ParseConnectionArguments(s string) (map[string]string, error) {
	out := make(map[string]string)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid connection argument %q, expected key:value", pair)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}

// ValidateConnection checks the credentials required by the selected
// authentication mode.
func ValidateConnection(c Connection, fs *Failures) {
	if !c.IsSnowflake() {
		if c.DSN == "" {
			fs.Add(fmt.Sprintf("DSN is not set for driver '%s'.", c.Driver), "", "dsn")
		}
		return
	}

	if c.AccountName == "" {
		fs.Add("Account Name is not set.", "", PropertyAccountName)
	}
	if c.Database == "" {
		fs.Add("Database is not set.", "", PropertyDatabase)
	}
	if c.SchemaName == "" {
		fs.Add("Schema Name is not set.", "", PropertySchemaName)
	}

	switch {
	case c.OAuth2Enabled:
		if c.ClientID == "" {
			fs.Add("Client ID is not set.", "", PropertyClientID)
		}
		if c.ClientSecret == "" {
			fs.Add("Client Secret is not set.", "", PropertyClientSecret)
		}
		if c.RefreshToken == "" {
			fs.Add("Refresh Token is not set.", "", PropertyRefreshToken)
		}
	case c.KeyPairEnabled:
		if c.Username == "" {
			fs.Add("Username is not set.", "", PropertyUsername)
		}
		if c.PrivateKey == "" {
			fs.Add("Private Key is not set.", "", PropertyPrivateKey)
		}
	default:
		if c.Username == "" {
			fs.Add("Username is not set.", "", PropertyUsername)
		}
		if c.Password == "" {
			fs.Add("Password is not set.", "", PropertyPassword)
		}
	}

	if _, err := ParseConnectionArguments(c.ConnectionArguments); err != nil {
		fs.Add(err.Error(), "Use the form key1:value1,key2:value2.", PropertyConnectionArguments)
	}
}
