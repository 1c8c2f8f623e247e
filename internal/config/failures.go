package config

import (
	"errors"
	"fmt"
	"strings"
)

// Failure is one configuration problem. Properties name the offending
// configuration keys.
type Failure struct {
	Message    string
	Corrective string
	Properties []string
}

func (f Failure) Error() string {
	var sb strings.Builder
	sb.WriteString(f.Message)
	if f.Corrective != "" {
		sb.WriteString(" ")
		sb.WriteString(f.Corrective)
	}
	if len(f.Properties) > 0 {
		fmt.Fprintf(&sb, " (properties: %s)", strings.Join(f.Properties, ", "))
	}
	return sb.String()
}

// Failures collects every problem found while validating a configuration,
// so they can all be reported at once.
type Failures struct {
	items []Failure
}

func (fs *Failures) Add(message, corrective string, properties ...string) {
	fs.items = append(fs.items, Failure{Message: message, Corrective: corrective, Properties: properties})
}

func (fs *Failures) Items() []Failure {
	return fs.items
}

func (fs *Failures) Len() int {
	return len(fs.items)
}

// Err joins all collected failures, or returns nil when there are none.
func (fs *Failures) Err() error {
	if len(fs.items) == 0 {
		return nil
	}
	errs := make([]error, len(fs.items))
	for i, f := range fs.items {
		errs[i] = f
	}
	return errors.Join(errs...)
}
