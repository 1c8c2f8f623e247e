package config

import (
	"fmt"
	"strings"
)

const (
	PropertySourceType       = "sourceType"
	PropertySourcePath       = "sourcePath"
	PropertySourceQuery      = "sourceQuery"
	PropertySourceTable      = "sourceTable"
	PropertyDestinationTable = "destinationTable"
	PropertyDestinationPath  = "destinationPath"
	PropertyFileFormatPolicy = "fileFormatFilteringPolicy"
	PropertyFormatType       = "formatType"
	PropertyFormatName       = "formatName"
	PropertyCloudProvider    = "cloudProvider"
	PropertyEncryptionType   = "encryptionType"
)

type FileFormatPolicy string

const (
	FileFormatUndefined        FileFormatPolicy = "Undefined"
	FileFormatByFileType       FileFormatPolicy = "By File Type"
	FileFormatByExistingFormat FileFormatPolicy = "By Existing Format Specification"
)

type CloudProvider string

const (
	CloudGCP   CloudProvider = "GCP"
	CloudAWS   CloudProvider = "AWS"
	CloudAzure CloudProvider = "AZURE"
)

type EncryptionType string

const (
	EncryptionNone      EncryptionType = "NONE"
	EncryptionAWSCSE    EncryptionType = "AWS_CSE"
	EncryptionAWSSSES3  EncryptionType = "AWS_SSE_S3"
	EncryptionAWSSSEKMS EncryptionType = "AWS_SSE_KMS"
	EncryptionAzureCSE  EncryptionType = "AZURE_CSE"
	EncryptionGCSSSEKMS EncryptionType = "GCS_SSE_KMS"
)

type SourceType string

const (
	SourceFromPath  SourceType = "fromPath"
	SourceFromQuery SourceType = "fromQuery"
	SourceFromTable SourceType = "fromTable"
)

// CopySettings are the COPY clauses shared by load and unload actions.
type CopySettings struct {
	FileFormatPolicy  FileFormatPolicy `mapstructure:"fileFormatFilteringPolicy"`
	FormatType        string           `mapstructure:"formatType"` // CSV, JSON, AVRO, ORC, PARQUET, XML
	FormatTypeOptions string           `mapstructure:"formatTypeOptions"`
	FormatName        string           `mapstructure:"formatName"`
	CopyOptions       string           `mapstructure:"copyOptions"`

	UseCloudProviderParameters bool          `mapstructure:"useCloudProviderParameters"`
	StorageIntegration         string        `mapstructure:"storageIntegration"`
	CloudProvider              CloudProvider `mapstructure:"cloudProvider"`
	AWSKeyID                   string        `mapstructure:"awsKeyId"`
	AWSSecretKey               string        `mapstructure:"awsSecretKey"`
	AWSToken                   string        `mapstructure:"awsToken"`
	AzureSASToken              string        `mapstructure:"azureSasToken"`

	FilesEncrypted bool           `mapstructure:"filesEncrypted"`
	EncryptionType EncryptionType `mapstructure:"encryptionType"`
	MasterKey      string         `mapstructure:"masterKey"`
	KMSKeyID       string         `mapstructure:"kmsKeyId"`
}

// LoadConfig configures COPY INTO <table> from staged files or a query over them.
type LoadConfig struct {
	Connection   `mapstructure:",squash"`
	CopySettings `mapstructure:",squash"`

	SourceType       SourceType `mapstructure:"sourceType"`
	SourcePath       string     `mapstructure:"sourcePath"`
	SourceQuery      string     `mapstructure:"sourceQuery"`
	DestinationTable string     `mapstructure:"destinationTable"`
	Files            string     `mapstructure:"files"` // Comma-separated
	Pattern          string     `mapstructure:"pattern"`
}

// UnloadConfig configures COPY INTO <location> from a table or a query.
type UnloadConfig struct {
	Connection   `mapstructure:",squash"`
	CopySettings `mapstructure:",squash"`

	SourceType      SourceType `mapstructure:"sourceType"`
	SourceTable     string     `mapstructure:"sourceTable"`
	SourceQuery     string     `mapstructure:"sourceQuery"`
	DestinationPath string     `mapstructure:"destinationPath"`
	IncludeHeader   bool       `mapstructure:"includeHeader"`
}

func validateCopySettings(c CopySettings, fs *Failures) {
	switch c.FileFormatPolicy {
	case "", FileFormatUndefined:
	case FileFormatByFileType:
		if strings.TrimSpace(c.FormatType) == "" {
			fs.Add("Format Type is not set.", "", PropertyFormatType)
		}
	case FileFormatByExistingFormat:
		if strings.TrimSpace(c.FormatName) == "" {
			fs.Add("Format Name is not set.", "", PropertyFormatName)
		}
	default:
		fs.Add(fmt.Sprintf("Unknown value for fileFormatFilteringPolicy: '%s'", c.FileFormatPolicy), "", PropertyFileFormatPolicy)
	}

	if c.UseCloudProviderParameters {
		switch c.CloudProvider {
		case CloudGCP, CloudAWS, CloudAzure:
		default:
			fs.Add(fmt.Sprintf("Unknown value for cloudProvider: '%s'", c.CloudProvider), "", PropertyCloudProvider)
		}
		if c.FilesEncrypted {
			switch c.EncryptionType {
			case EncryptionNone, EncryptionAWSCSE, EncryptionAWSSSES3, EncryptionAWSSSEKMS, EncryptionAzureCSE, EncryptionGCSSSEKMS:
			default:
				fs.Add(fmt.Sprintf("Unknown value for encryptionType: '%s'", c.EncryptionType), "", PropertyEncryptionType)
			}
		}
	}
}

func ValidateLoad(c LoadConfig, fs *Failures) {
	ValidateConnection(c.Connection, fs)
	validateCopySettings(c.CopySettings, fs)

	if strings.TrimSpace(c.DestinationTable) == "" {
		fs.Add("Destination Table is not set.", "", PropertyDestinationTable)
	}
	switch c.SourceType {
	case "", SourceFromPath, SourceFromQuery:
	default:
		fs.Add(fmt.Sprintf("Unknown value for sourceType: '%s'", c.SourceType), "", PropertySourceType)
	}
	if strings.TrimSpace(c.SourcePath) == "" && strings.TrimSpace(c.SourceQuery) == "" {
		fs.Add("'Source Path' and 'Source Query' properties are not set.",
			"Please set at least one of given properties.", PropertySourcePath, PropertySourceQuery)
	}
}

func ValidateUnload(c UnloadConfig, fs *Failures) {
	ValidateConnection(c.Connection, fs)
	validateCopySettings(c.CopySettings, fs)

	if strings.TrimSpace(c.DestinationPath) == "" {
		fs.Add("Destination Path is not set.", "", PropertyDestinationPath)
	}
	switch c.SourceType {
	case "", SourceFromTable:
		if strings.TrimSpace(c.SourceTable) == "" {
			fs.Add("Source Table is not set.", "", PropertySourceTable)
		}
	case SourceFromQuery:
		if strings.TrimSpace(c.SourceQuery) == "" {
			fs.Add("Source Query is not set.", "", PropertySourceQuery)
		}
	default:
		fs.Add(fmt.Sprintf("Unknown value for sourceType: '%s'", c.SourceType), "", PropertySourceType)
	}
}
