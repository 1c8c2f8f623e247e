package dialect

import (
	"fmt"
	"strings"
)

// DefaultNormalizeType upper-cases a type name and strips any length or
// precision suffix, e.g. "varchar(20)" becomes "VARCHAR".
func DefaultNormalizeType(sqlType string) string {
	t := strings.TrimSpace(sqlType)
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	return strings.ToUpper(strings.TrimSpace(t))
}

// RemoveSemicolon strips one trailing semicolon.
func RemoveSemicolon(query string) string {
	return strings.TrimSuffix(query, ";")
}

// QuoteList renders values as a comma-separated list of single-quoted literals.
func QuoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("'%s'", strings.ReplaceAll(v, "'", "''"))
	}
	return strings.Join(quoted, ",")
}
