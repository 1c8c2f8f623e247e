package config_test

import (
	"context"
	"errors"
	"testing"

	"snowflake-connector/internal/config"
	"snowflake-connector/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDescriber struct {
	columns []schema.ColumnDescriptor
	err     error
	queries []string
}

func (f *fakeDescriber) Describe(_ context.Context, query string) ([]schema.ColumnDescriptor, error) {
	f.queries = append(f.queries, query)
	return f.columns, f.err
}

func baseConnection() config.Connection {
	return config.Connection{
		AccountName: "acct",
		Database:    "DB",
		SchemaName:  "PUBLIC",
		Username:    "user",
		Password:    "secret",
	}
}

func properties(fs *config.Failures) []string {
	var out []string
	for _, f := range fs.Items() {
		out = append(out, f.Properties...)
	}
	return out
}

func TestValidateConnection_AuthModes(t *testing.T) {
	cases := []struct {
		name  string
		conn  config.Connection
		props []string
	}{
		{"password ok", baseConnection(), nil},
		{"password missing", func() config.Connection {
			c := baseConnection()
			c.Password = ""
			return c
		}(), []string{config.PropertyPassword}},
		{"key pair missing key", func() config.Connection {
			c := baseConnection()
			c.KeyPairEnabled = true
			return c
		}(), []string{config.PropertyPrivateKey}},
		{"oauth missing everything", func() config.Connection {
			c := baseConnection()
			c.OAuth2Enabled = true
			return c
		}(), []string{config.PropertyClientID, config.PropertyClientSecret, config.PropertyRefreshToken}},
		{"non snowflake needs dsn", config.Connection{Driver: "postgres"}, []string{"dsn"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var fs config.Failures
			config.ValidateConnection(tc.conn, &fs)
			assert.Equal(t, tc.props, properties(&fs))
		})
	}
}

func TestParseConnectionArguments(t *testing.T) {
	args, err := config.ParseConnectionArguments("CLIENT_SESSION_KEEP_ALIVE:true, QUERY_TAG:etl:nightly")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"CLIENT_SESSION_KEEP_ALIVE": "true",
		"QUERY_TAG":                 "etl:nightly",
	}, args)

	_, err = config.ParseConnectionArguments("novalue")
	assert.Error(t, err)

	var fs config.Failures
	c := baseConnection()
	c.ConnectionArguments = "broken"
	config.ValidateConnection(c, &fs)
	assert.Equal(t, []string{config.PropertyConnectionArguments}, properties(&fs))
}

func TestExtraParams_ArgumentsOverrideParams(t *testing.T) {
	c := baseConnection()
	c.Params = map[string]string{"QUERY_TAG": "a", "TIMEZONE": "UTC"}
	c.ConnectionArguments = "QUERY_TAG:b"

	params, err := c.ExtraParams()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"QUERY_TAG": "b", "TIMEZONE": "UTC"}, params)
}

func TestResolveOutputSchema_MalformedDeclared(t *testing.T) {
	var fs config.Failures
	d := &fakeDescriber{}

	rec := config.ResolveOutputSchema(context.Background(), config.SourceConfig{Schema: "{}"}, d, &fs)

	assert.Nil(t, rec)
	require.Equal(t, 1, fs.Len())
	assert.Equal(t, []string{config.PropertySchema}, fs.Items()[0].Properties)
	assert.Contains(t, fs.Items()[0].Message, "Unable to retrieve output schema")
	assert.Empty(t, d.queries)
}

func TestResolveOutputSchema_Described(t *testing.T) {
	var fs config.Failures
	d := &fakeDescriber{columns: []schema.ColumnDescriptor{{Name: "ID", TypeCode: schema.TypeBigInt}}}

	rec := config.ResolveOutputSchema(context.Background(),
		config.SourceConfig{ImportQuery: "select id from t"}, d, &fs)

	require.NoError(t, fs.Err())
	require.NotNil(t, rec)
	assert.Equal(t, []string{"ID"}, rec.FieldNames())
	assert.Equal(t, []string{"select id from t"}, d.queries)
}

func TestResolveOutputSchema_DescribeFails(t *testing.T) {
	var fs config.Failures
	d := &fakeDescriber{err: errors.New("warehouse suspended")}

	rec := config.ResolveOutputSchema(context.Background(), config.SourceConfig{ImportQuery: "select 1"}, d, &fs)

	assert.Nil(t, rec)
	require.Error(t, fs.Err())
	assert.Contains(t, fs.Err().Error(), "warehouse suspended")
}

func TestResolveOutputSchema_Unknown(t *testing.T) {
	var fs config.Failures
	rec := config.ResolveOutputSchema(context.Background(), config.SourceConfig{}, nil, &fs)
	assert.Nil(t, rec)
	assert.NoError(t, fs.Err())
}

func TestSinkCopyOptionsClause(t *testing.T) {
	c := config.SinkConfig{CopyOptions: "ON_ERROR:CONTINUE,PURGE:TRUE"}
	assert.Equal(t, "ON_ERROR=CONTINUE PURGE=TRUE", c.CopyOptionsClause())
}

func TestValidateInputSchema(t *testing.T) {
	d := &fakeDescriber{columns: []schema.ColumnDescriptor{
		{Name: "ID", TypeCode: schema.TypeBigInt},
		{Name: "NAME", TypeCode: schema.TypeVarchar, Nullable: true},
	}}
	input, err := schema.NewRecord("in", []schema.Field{
		{Name: "ID", Type: schema.Of(schema.KindLong)},
		{Name: "NAME", Type: schema.Of(schema.KindString)},
		{Name: "EXTRA", Type: schema.Of(schema.KindString)},
	})
	require.NoError(t, err)

	var fs config.Failures
	config.ValidateInputSchema(context.Background(), config.SinkConfig{TableName: "T"}, input, d, &fs)

	assert.Equal(t, []string{"SELECT * FROM T"}, d.queries)
	assert.Equal(t, []string{"NAME", "EXTRA"}, properties(&fs))
	for _, f := range fs.Items() {
		assert.Contains(t, f.Message, "Input schema does not correspond with schema of actual table.")
	}
}

func TestValidateLoad_RequiresPathOrQuery(t *testing.T) {
	var fs config.Failures
	config.ValidateLoad(config.LoadConfig{Connection: baseConnection(), DestinationTable: "T"}, &fs)
	require.Equal(t, 1, fs.Len())
	assert.Equal(t, []string{config.PropertySourcePath, config.PropertySourceQuery}, fs.Items()[0].Properties)
}

func TestValidateUnload(t *testing.T) {
	var fs config.Failures
	config.ValidateUnload(config.UnloadConfig{
		Connection: baseConnection(),
		CopySettings: config.CopySettings{
			FileFormatPolicy: config.FileFormatByFileType,
		},
		SourceType:      config.SourceFromQuery,
		DestinationPath: "@~/out/",
	}, &fs)
	assert.Equal(t, []string{config.PropertyFormatType, config.PropertySourceQuery}, properties(&fs))
}
