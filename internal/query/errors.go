package query

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ValidationError reports every way a request broke the whitelist or paging
// rules. It is a client error and is never retried.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid search request: " + strings.Join(e.Violations, "; ")
}

// violations accumulates messages in the order they are found.
type violations struct {
	errs *multierror.Error
}

func (v *violations) addf(format string, args ...any) {
	v.errs = multierror.Append(v.errs, fmt.Errorf(format, args...))
}

// err returns nil when nothing was recorded.
func (v *violations) err() error {
	if v.errs == nil || len(v.errs.Errors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(v.errs.Errors))
	for _, e := range v.errs.Errors {
		msgs = append(msgs, e.Error())
	}
	return &ValidationError{Violations: msgs}
}

// bracket renders names the way violation messages list them: [a, b].
func bracket(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}
