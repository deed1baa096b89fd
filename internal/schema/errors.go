package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrorCode classifies a ValidationError.
type ErrorCode int

const (
	ErrInvalidJSON ErrorCode = iota + 1000
	ErrSchemaViolation
	ErrSchemaCompile
)

func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidJSON:
		return "invalid_json"
	case ErrSchemaViolation:
		return "schema_violation"
	case ErrSchemaCompile:
		return "schema_compile"
	default:
		return "unknown"
	}
}

// rootField names the document itself in ValidationError.Fields.
const rootField = "body"

// ValidationError is returned when a document does not satisfy its schema.
// Fields maps a JSON pointer (or "body" for the document root) to the
// first violation reported at that location.
type ValidationError struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *ValidationError) Error() string {
	base := fmt.Sprintf("[%d] %s", e.Code, e.Message)
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		base += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Cause != nil {
		base += fmt.Sprintf(": %v", e.Cause)
	}
	return base
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func newValidationError(code ErrorCode, message string, cause error) *ValidationError {
	var wrapped error
	if cause != nil {
		wrapped = errors.WithStack(cause)
	}
	return &ValidationError{Code: code, Message: message, Cause: wrapped}
}

// AsValidationError reports whether err is (or wraps) a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr, true
	}
	return nil, false
}

// convertValidationError flattens the jsonschema error tree into leaf
// violations keyed by instance location.
func convertValidationError(valErr *jsonschema.ValidationError, what string) *ValidationError {
	fields := make(map[string]string)
	collectLeaves(valErr, fields)

	out := &ValidationError{
		Code:    ErrSchemaViolation,
		Message: what + " does not match schema",
		Fields:  fields,
	}
	return out
}

func collectLeaves(valErr *jsonschema.ValidationError, fields map[string]string) {
	if len(valErr.Causes) == 0 {
		key := valErr.InstanceLocation
		if key == "" {
			key = rootField
		}
		if _, seen := fields[key]; !seen {
			fields[key] = valErr.Message
		}
		return
	}
	for _, cause := range valErr.Causes {
		collectLeaves(cause, fields)
	}
}
