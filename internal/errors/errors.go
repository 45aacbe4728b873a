package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures raised by the listing and navigation engine
type ErrorType int

const (
	ErrorTypeConfig ErrorType = iota
	ErrorTypeDirectoryUnreadable
	ErrorTypeEntryStatFailed
	ErrorTypeItemNotFound
	ErrorTypeInvalidName
	ErrorTypeTargetExists
	ErrorTypeCrossDeviceMove
	ErrorTypeDecodeFailure
	ErrorTypeCacheIOFailure
	ErrorTypeExternalCommandFailure
	ErrorTypeClipboardEmpty
)

// String returns a string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeConfig:
		return "config"
	case ErrorTypeDirectoryUnreadable:
		return "directory unreadable"
	case ErrorTypeEntryStatFailed:
		return "entry stat failed"
	case ErrorTypeItemNotFound:
		return "item not found"
	case ErrorTypeInvalidName:
		return "invalid name"
	case ErrorTypeTargetExists:
		return "target exists"
	case ErrorTypeCrossDeviceMove:
		return "cross-device move"
	case ErrorTypeDecodeFailure:
		return "decode failure"
	case ErrorTypeCacheIOFailure:
		return "cache io failure"
	case ErrorTypeExternalCommandFailure:
		return "external command failure"
	case ErrorTypeClipboardEmpty:
		return "clipboard empty"
	default:
		return "unknown"
	}
}

// AppError represents a structured application error
type AppError struct {
	Type      ErrorType
	Operation string
	Path      string
	Message   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error in %s [%s]: %s", e.Type, e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(t ErrorType, operation, path, message string, err error) *AppError {
	return &AppError{
		Type:      t,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// NewConfigError creates a new configuration error
func NewConfigError(operation, message string, err error) *AppError {
	return newError(ErrorTypeConfig, operation, "", message, err)
}

// NewDirectoryUnreadableError reports a path that could not be opened as a directory
func NewDirectoryUnreadableError(path string, err error) *AppError {
	return newError(ErrorTypeDirectoryUnreadable, "read_dir", path, "cannot open directory", err)
}

// NewEntryStatError reports a child whose metadata could not be read
func NewEntryStatError(path string, err error) *AppError {
	return newError(ErrorTypeEntryStatFailed, "classify", path, "stat failed", err)
}

// NewItemNotFoundError reports a missing operation source
func NewItemNotFoundError(operation, path string) *AppError {
	return newError(ErrorTypeItemNotFound, operation, path, "item not found", nil)
}

// NewInvalidNameError reports a rejected rename target
func NewInvalidNameError(name, reason string) *AppError {
	return newError(ErrorTypeInvalidName, "rename", name, reason, nil)
}

// NewTargetExistsError reports a destination collision
func NewTargetExistsError(operation, path string) *AppError {
	return newError(ErrorTypeTargetExists, operation, path, "target already exists", nil)
}

// NewCrossDeviceMoveError reports a rename that crossed filesystems
func NewCrossDeviceMoveError(path string, err error) *AppError {
	return newError(ErrorTypeCrossDeviceMove, "move", path, "rename failed (might be cross-device operation?)", err)
}

// NewDecodeError reports an image that could not be decoded or resized
func NewDecodeError(path string, err error) *AppError {
	return newError(ErrorTypeDecodeFailure, "thumbnail", path, "cannot decode image", err)
}

// NewCacheIOError reports a cache load or save failure
func NewCacheIOError(operation, path string, err error) *AppError {
	return newError(ErrorTypeCacheIOFailure, operation, path, "cache i/o failed", err)
}

// NewExternalCommandError reports a failed default-handler invocation
func NewExternalCommandError(path string, err error) *AppError {
	return newError(ErrorTypeExternalCommandFailure, "open", path, "no handler could open the file", err)
}

// NewClipboardEmptyError reports a paste with nothing staged
func NewClipboardEmptyError() *AppError {
	return newError(ErrorTypeClipboardEmpty, "paste", "", "clipboard is empty", nil)
}

// TypeOf returns the ErrorType of the first AppError in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type, true
	}
	return 0, false
}

// IsType reports whether err wraps an AppError of type t.
func IsType(err error, t ErrorType) bool {
	got, ok := TypeOf(err)
	return ok && got == t
}
