package nav

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	ErrMalformedEntry = errors.New("malformed entry")
	ErrDuplicateRoute = errors.New("duplicate route")
	ErrDuplicateScope = errors.New("duplicate sidebar scope")

	ErrDanglingLink = errors.New("dangling link")
	ErrLinkStyle    = errors.New("link style")
	ErrOutOfScope   = errors.New("out of scope")
)

// EntryError locates a failure inside a navigation tree. Trail holds the
// labels from the root down to the offending node.
type EntryError struct {
	Kind   error
	Trail  []string
	Detail string
}

func (e *EntryError) Error() string {
	if len(e.Trail) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, strings.Join(e.Trail, " > "), e.Detail)
}

func (e *EntryError) Unwrap() error {
	return e.Kind
}

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a finding that does not by itself make the navigation
// unusable. Strict builds treat every diagnostic as fatal.
type Diagnostic struct {
	Kind     error
	Severity Severity
	Route    string
	Trail    []string
	Message  string
}

func (d Diagnostic) Code() string {
	return strings.ReplaceAll(d.Kind.Error(), " ", "-")
}

func (d Diagnostic) Err() error {
	return &EntryError{Kind: d.Kind, Trail: d.Trail, Detail: d.Message}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code(), d.Route, d.Message)
}

// Escalate turns diagnostics into a build error. Warnings only count when
// strict is set.
func Escalate(diags []Diagnostic, strict bool) error {
	var err error
	for _, d := range diags {
		if strict || d.Severity == SeverityError {
			err = multierr.Append(err, d.Err())
		}
	}
	return err
}

func malformed(trail []string, format string, args ...interface{}) error {
	return &EntryError{
		Kind:   ErrMalformedEntry,
		Trail:  append([]string(nil), trail...),
		Detail: fmt.Sprintf(format, args...),
	}
}
