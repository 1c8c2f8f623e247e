package dialect

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UserStage is the Snowflake user stage that holds transfer files.
const UserStage = "@~"

const unloadFileFormat = "FILE_FORMAT=(" +
	"TYPE='CSV' " +
	"COMPRESSION=GZIP " +
	"FIELD_DELIMITER=',' " +
	"ESCAPE=NONE " +
	"ESCAPE_UNENCLOSED_FIELD=NONE " +
	"DATE_FORMAT='YYYY-MM-DD' " +
	"TIME_FORMAT='HH24:MI:SS' " +
	"TIMESTAMP_FORMAT='YYYY-MM-DD\"T\"HH24:MI:SSTZH:TZM' " +
	"FIELD_OPTIONALLY_ENCLOSED_BY='\"' " +
	"NULL_IF='' " +
	"EMPTY_FIELD_AS_NULL=FALSE)"

// UnloadToStageQuery copies the result of query into gzip CSV files with a
// header row under stagePath. maxFileSize <= 0 keeps the server default.
func UnloadToStageQuery(stagePath, query string, maxFileSize int64) string {
	q := fmt.Sprintf("COPY INTO %sdata_ FROM (%s) %s OVERWRITE=TRUE HEADER=TRUE SINGLE=FALSE",
		stagePath, RemoveSemicolon(query), unloadFileFormat)
	if maxFileSize > 0 {
		q += fmt.Sprintf(" MAX_FILE_SIZE=%d", maxFileSize)
	}
	return q
}

func ListStageQuery(stagePath string) string {
	return "list " + stagePath
}

// RemoveStageFileQuery removes one file listed from the user stage.
func RemoveStageFileQuery(name string) string {
	return fmt.Sprintf("remove %s/%s", UserStage, name)
}

func RemovePathQuery(stagePath string) string {
	return "remove " + stagePath
}

// GetStageFileQuery downloads a user stage file into a local directory.
func GetStageFileQuery(name, localDir string) string {
	return fmt.Sprintf("GET '%s/%s' 'file://%s/'", UserStage, name, filepath.ToSlash(localDir))
}

// PutFileQuery uploads a local file into stagePath, gzip-compressing it.
func PutFileQuery(localFile, stagePath string) string {
	return fmt.Sprintf("PUT 'file://%s' '%s' AUTO_COMPRESS=TRUE OVERWRITE=TRUE",
		filepath.ToSlash(localFile), stagePath)
}

// CopyIntoTableQuery loads staged CSV files with a header row into table.
func CopyIntoTableQuery(table, stagePath, copyOptions string) string {
	return strings.TrimSpace(fmt.Sprintf(
		"COPY INTO %s FROM %s FILE_FORMAT=(TYPE='CSV' FIELD_OPTIONALLY_ENCLOSED_BY='\"' SKIP_HEADER = 1) %s",
		table, stagePath, copyOptions))
}

// QuotePathIfNeeded quotes external cloud paths. Internal stage paths must
// stay unquoted in COPY statements.
func QuotePathIfNeeded(path string) string {
	for _, prefix := range []string{"gcs://", "azure://", "s3://"} {
		if strings.HasPrefix(path, prefix) {
			return "'" + path + "'"
		}
	}
	return path
}
