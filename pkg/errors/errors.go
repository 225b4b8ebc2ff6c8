package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrConfigValid    ErrorCode = "CONFIG_INVALID"
	ErrInvalidPattern ErrorCode = "INVALID_PATTERN"

	// Walker errors (all of them abort the walk)
	ErrCanonicalize        ErrorCode = "FAILED_TO_CANONICALIZE"
	ErrDirNotFound         ErrorCode = "DIR_NOT_FOUND"
	ErrWalkDir             ErrorCode = "FAILED_TO_WALK_DIR"
	ErrReadDirEntry        ErrorCode = "FAILED_TO_READ_DIR_ENTRY"
	ErrItemMetadata        ErrorCode = "FAILED_TO_GET_ITEM_METADATA"
	ErrReadSymlinkTarget   ErrorCode = "FAILED_TO_READ_SYMLINK_TARGET"
	ErrRuleFailed          ErrorCode = "RULE_FAILED_TO_RUN"
	ErrRuleMappedFileAsDir ErrorCode = "RULE_MAPPED_FILE_AS_DIR"
	ErrRuleMappingExternal ErrorCode = "RULE_MAPPING_CONTAINS_EXTERNAL_ITEM"
	ErrRuleMappingMissing  ErrorCode = "RULE_MAPPING_CONTAINS_NON_EXISTING_ITEM"

	// Manifest errors
	ErrNonUTF8Path ErrorCode = "NON_UTF8_PATH"
	ErrOutputWrite ErrorCode = "OUTPUT_WRITE"
)

// Detail keys attached to walker errors
const (
	DetailPath            = "path"
	DetailItemPath        = "item_path"
	DetailMappedItemPath  = "mapped_item_path"
	DetailRuleName        = "rule_name"
	DetailRuleDescription = "rule_description"
)

// RebackupError represents a structured error with code and details
type RebackupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RebackupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RebackupError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RebackupError) Is(target error) bool {
	var targetErr *RebackupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RebackupError with the given code and message
func New(code ErrorCode, message string) *RebackupError {
	return &RebackupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RebackupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RebackupError {
	return &RebackupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RebackupError
func Wrap(err error, code ErrorCode, message string) *RebackupError {
	if err == nil {
		return nil
	}
	return &RebackupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RebackupError {
	if err == nil {
		return nil
	}
	return &RebackupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RebackupError) WithDetail(key string, value interface{}) *RebackupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *RebackupError) WithDetails(details map[string]interface{}) *RebackupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// DetailString returns a string detail, or "" if it is absent
func (e *RebackupError) DetailString(key string) string {
	if s, ok := e.Details[key].(string); ok {
		return s
	}
	return ""
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rebackupErr *RebackupError
	if errors.As(err, &rebackupErr) {
		return rebackupErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RebackupError
func GetErrorCode(err error) ErrorCode {
	var rebackupErr *RebackupError
	if errors.As(err, &rebackupErr) {
		return rebackupErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RebackupError
func GetErrorDetails(err error) map[string]interface{} {
	var rebackupErr *RebackupError
	if errors.As(err, &rebackupErr) {
		return rebackupErr.Details
	}
	return nil
}
