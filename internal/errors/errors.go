// Package errors provides standardized error handling for the log viewer.
// It defines common error types, constants, and helper functions for consistent
// error creation, wrapping, and handling across the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// As finds the first error in err's chain that matches target
var As = errors.As

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileCreateFailed
	FileReadFailed
	InvalidOperation
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Validation error kinds
	SchemaInvalid
	DocumentMalformed
	DocumentInvalid
	ValidationFailed
	// Launch error kinds
	LaunchFailed
)

// String returns a short name for the kind
func (k ErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "file not found"
	case FileAccessDenied:
		return "file access denied"
	case InvalidPath:
		return "invalid path"
	case FileCreateFailed:
		return "file create failed"
	case FileReadFailed:
		return "file read failed"
	case InvalidOperation:
		return "invalid operation"
	case InvalidConfig:
		return "invalid config"
	case ConfigNotFound:
		return "config not found"
	case SchemaInvalid:
		return "schema invalid"
	case DocumentMalformed:
		return "document malformed"
	case DocumentInvalid:
		return "document invalid"
	case ValidationFailed:
		return "validation failed"
	case LaunchFailed:
		return "launch failed"
	}
	return "unknown"
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// Issue is a single located problem reported by the schema validator.
type Issue struct {
	Line    int
	Message string
}

// String renders the issue the way the status pane shows it.
func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}

// ValidationError carries every issue found while validating a document.
// The kind tells which phase failed: schema parse, document parse or
// schema conformance.
type ValidationError struct {
	ApplicationError
	issues []Issue
}

// NewValidationError creates a new validation error
func NewValidationError(msg string, kind ErrorKind, issues []Issue, err error) *ValidationError {
	return &ValidationError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		issues: issues,
	}
}

// Error returns the validation error message
func (e *ValidationError) Error() string {
	if len(e.issues) == 0 {
		return e.ApplicationError.Error()
	}
	parts := make([]string, len(e.issues))
	for i, issue := range e.issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("%s: %s", e.msg, strings.Join(parts, "; "))
}

// Issues returns the located problems
func (e *ValidationError) Issues() []Issue {
	return e.issues
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context. The wrapper takes
// the kind of the wrapped error.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: KindOf(err),
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: KindOf(err),
	}
}

// KindOf returns the first kind other than Unknown found in err's chain.
func KindOf(err error) ErrorKind {
	for ; err != nil; err = errors.Unwrap(err) {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() != Unknown {
			return k.Kind()
		}
	}
	return Unknown
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

