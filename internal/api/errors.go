package api

import (
	"fmt"
	"sort"
	"strings"
)

// StatusError is a response received with a non-2xx status code.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("request failed (%d)", e.Code)
}

// FormatError is a 2xx response whose body does not match the expected
// shape, such as a list response without a data field.
type FormatError struct {
	Detail string
}

func (e *FormatError) Error() string {
	return "unexpected response format: " + e.Detail
}

// ValidationError carries the field-keyed error map of a 422 response.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return e.Flatten()
}

// Flatten joins every field message into one display string, ordered by
// field name so output is deterministic.
func (e *ValidationError) Flatten() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		for _, msg := range e.Fields[k] {
			parts = append(parts, k+" "+msg)
		}
	}
	return strings.Join(parts, "; ")
}
