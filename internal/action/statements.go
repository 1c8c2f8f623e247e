package action

import (
	"fmt"
	"strings"

	"snowflake-connector/internal/config"
	"snowflake-connector/internal/dialect"
)

// LoadStatement builds the COPY INTO <table> statement of a load action.
func LoadStatement(c config.LoadConfig) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "COPY INTO %s FROM", c.DestinationTable)

	switch loadSource(c) {
	case config.SourceFromPath:
		fmt.Fprintf(&sb, " %s", dialect.QuotePathIfNeeded(c.SourcePath))
	case config.SourceFromQuery:
		fmt.Fprintf(&sb, " (%s)", dialect.RemoveSemicolon(c.SourceQuery))
	default:
		return "", fmt.Errorf("unknown value for sourceType: '%s'", c.SourceType)
	}

	if c.Pattern != "" {
		fmt.Fprintf(&sb, " PATTERN = '%s'", c.Pattern)
	}
	if c.Files != "" {
		fmt.Fprintf(&sb, " FILES = ( %s )", quoteFiles(c.Files))
	}

	if err := writeCopySettings(&sb, c.CopySettings); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// UnloadStatement builds the COPY INTO <location> statement of an unload action.
func UnloadStatement(c config.UnloadConfig) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "COPY INTO %s FROM", dialect.QuotePathIfNeeded(c.DestinationPath))

	switch c.SourceType {
	case "", config.SourceFromTable:
		fmt.Fprintf(&sb, " %s", c.SourceTable)
	case config.SourceFromQuery:
		fmt.Fprintf(&sb, " ( %s )", dialect.RemoveSemicolon(c.SourceQuery))
	default:
		return "", fmt.Errorf("unknown value for sourceType: '%s'", c.SourceType)
	}

	if c.IncludeHeader {
		sb.WriteString(" HEADER = TRUE")
	}

	if err := writeCopySettings(&sb, c.CopySettings); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// loadSource defaults an unset source type to the path when one is given.
func loadSource(c config.LoadConfig) config.SourceType {
	if c.SourceType != "" {
		return c.SourceType
	}
	if strings.TrimSpace(c.SourcePath) != "" {
		return config.SourceFromPath
	}
	return config.SourceFromQuery
}

// quoteFiles turns "a.csv, 'b.csv'" into "'a.csv','b.csv'".
func quoteFiles(files string) string {
	parts := strings.Split(files, ",")
	for i, f := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(f), "'")
	}
	return dialect.QuoteList(parts)
}

func writeCopySettings(sb *strings.Builder, c config.CopySettings) error {
	switch c.FileFormatPolicy {
	case "", config.FileFormatUndefined:
	case config.FileFormatByFileType:
		fmt.Fprintf(sb, " FILE_FORMAT = ( TYPE = '%s' %s )", c.FormatType, c.FormatTypeOptions)
	case config.FileFormatByExistingFormat:
		fmt.Fprintf(sb, " FILE_FORMAT = ( FORMAT_NAME = '%s' )", c.FormatName)
	default:
		return fmt.Errorf("unknown value for fileFormatFilteringPolicy: '%s'", c.FileFormatPolicy)
	}

	if c.CopyOptions != "" {
		fmt.Fprintf(sb, " %s", c.CopyOptions)
	}

	if !c.UseCloudProviderParameters {
		return nil
	}

	if c.StorageIntegration != "" {
		fmt.Fprintf(sb, " STORAGE_INTEGRATION = %s", c.StorageIntegration)
	}

	switch c.CloudProvider {
	case config.CloudGCP:
	case config.CloudAWS:
		var creds strings.Builder
		if c.AWSKeyID != "" {
			fmt.Fprintf(&creds, " AWS_KEY_ID = '%s'", c.AWSKeyID)
		}
		if c.AWSSecretKey != "" {
			fmt.Fprintf(&creds, " AWS_SECRET_KEY = '%s'", c.AWSSecretKey)
		}
		if c.AWSToken != "" {
			fmt.Fprintf(&creds, " AWS_TOKEN = '%s'", c.AWSToken)
		}
		if creds.Len() > 0 {
			fmt.Fprintf(sb, " CREDENTIALS = ( %s )", creds.String())
		}
	case config.CloudAzure:
		if c.AzureSASToken != "" {
			fmt.Fprintf(sb, " CREDENTIALS = ( AZURE_SAS_TOKEN = '%s' )", c.AzureSASToken)
		}
	default:
		return fmt.Errorf("unknown value for cloudProvider: '%s'", c.CloudProvider)
	}

	return writeEncryption(sb, c)
}

func writeEncryption(sb *strings.Builder, c config.CopySettings) error {
	if !c.FilesEncrypted {
		return nil
	}

	param := ""
	switch c.EncryptionType {
	case config.EncryptionNone:
		return nil
	case config.EncryptionAzureCSE, config.EncryptionAWSCSE:
		if c.MasterKey != "" {
			param = fmt.Sprintf("MASTER_KEY = '%s'", c.MasterKey)
		}
	case config.EncryptionAWSSSEKMS, config.EncryptionGCSSSEKMS:
		if c.KMSKeyID != "" {
			param = fmt.Sprintf("KMS_KEY_ID = '%s'", c.KMSKeyID)
		}
	case config.EncryptionAWSSSES3:
	default:
		return fmt.Errorf("unknown value for encryptionType: '%s'", c.EncryptionType)
	}

	fmt.Fprintf(sb, " ENCRYPTION = ( TYPE = '%s' %s ) ", c.EncryptionType, param)
	return nil
}

// secrets lists the credential values of c that must not reach the logs.
func secrets(c config.CopySettings) []string {
	var out []string
	for _, s := range []string{c.AWSKeyID, c.AWSSecretKey, c.AWSToken, c.AzureSASToken, c.MasterKey} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
