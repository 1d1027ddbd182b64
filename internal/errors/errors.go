// Package errors provides structured build error types for docsmith.
// Builder stages report BuildErrors into an ErrorCollector instead of
// aborting on the first failure, so a single `docsmith build` surfaces
// every broken page and missing asset at once.
package errors

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// BuildError represents a failure while building a page or validating an
// asset reference.
type BuildError struct {
	// Page is the slug of the affected page ("" for site-level errors)
	Page string
	// File is the source file the error originates from
	File string
	// Line and Column locate the error inside File (0 when unknown)
	Line   int
	Column int
	// Message is the human-readable description
	Message string
	// Severity classifies the error
	Severity ErrorSeverity
	// Timestamp is set by the collector when the error is recorded
	Timestamp time.Time
}

// ErrorSeverity represents the severity of an error
type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
	ErrorSeverityFatal
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	case ErrorSeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error implements the error interface
func (be *BuildError) Error() string {
	if be.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", be.File, be.Line, be.Column, be.Severity, be.Message)
	}
	return fmt.Sprintf("%s: %s: %s", be.File, be.Severity, be.Message)
}

// MissingAssetError builds the BuildError reported when a page or
// feature item references a static asset that does not exist.
func MissingAssetError(file, asset string) BuildError {
	return BuildError{
		File:     file,
		Message:  fmt.Sprintf("referenced asset %q not found in static directory", asset),
		Severity: ErrorSeverityError,
	}
}

// ErrorCollector collects build errors and general errors across builder
// stages. Safe for concurrent use.
type ErrorCollector struct {
	buildErrors []BuildError
	errors      []error
	mutex       sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		buildErrors: make([]BuildError, 0),
		errors:      make([]error, 0),
	}
}

// Add adds a build error to the collector
func (ec *ErrorCollector) Add(err BuildError) {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	err.Timestamp = time.Now()
	ec.buildErrors = append(ec.buildErrors, err)
}

// AddError adds a general error to the collector
func (ec *ErrorCollector) AddError(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// BuildErrors returns a copy of the collected build errors
func (ec *ErrorCollector) BuildErrors() []BuildError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]BuildError, len(ec.buildErrors))
	copy(result, ec.buildErrors)
	return result
}

// HasErrors reports whether any error- or fatal-severity build errors or
// general errors were collected. Warnings alone do not fail a build.
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	if len(ec.errors) > 0 {
		return true
	}
	for _, be := range ec.buildErrors {
		if be.Severity >= ErrorSeverityError {
			return true
		}
	}
	return false
}

// Count returns the total number of collected errors
func (ec *ErrorCollector) Count() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.buildErrors) + len(ec.errors)
}

// Clear discards all collected errors; used between watch-mode rebuilds
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.buildErrors = ec.buildErrors[:0]
	ec.errors = ec.errors[:0]
}

// Summary formats all collected errors as a multi-line report suitable
// for CLI output. Returns "" when nothing was collected.
func (ec *ErrorCollector) Summary() string {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	if len(ec.buildErrors) == 0 && len(ec.errors) == 0 {
		return ""
	}

	var b strings.Builder
	for _, be := range ec.buildErrors {
		b.WriteString(be.Error())
		b.WriteString("\n")
	}
	for _, err := range ec.errors {
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
