// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Screening pipeline
	ErrCodeExtractionFailed      ErrorCode = "EXTRACTION_FAILED"
	ErrCodeAnalysisPrecondition  ErrorCode = "ANALYSIS_PRECONDITION_FAILED"
	ErrCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrCodeInputParsingFailed    ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeCandidateNotFound     ErrorCode = "CANDIDATE_NOT_FOUND"
	ErrCodeJobPositionNotFound   ErrorCode = "JOB_POSITION_NOT_FOUND"
	ErrCodeJobPositionNotOpen    ErrorCode = "JOB_POSITION_NOT_OPEN"
	ErrCodeFilterLocked          ErrorCode = "FILTER_LOCKED"
	ErrCodeDocumentFetchFailed   ErrorCode = "DOCUMENT_FETCH_FAILED"
	ErrCodeDocumentTooLarge      ErrorCode = "DOCUMENT_TOO_LARGE"
	ErrCodeUnsupportedDocument   ErrorCode = "UNSUPPORTED_DOCUMENT"
	ErrCodeNoRecipient           ErrorCode = "NO_RECIPIENT"

	// Infrastructure
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeCacheFailed              ErrorCode = "CACHE_ERROR"
	ErrCodeSearchIndexFailed        ErrorCode = "SEARCH_INDEX_ERROR"
	ErrCodePublishFailed            ErrorCode = "PUBLISH_FAILED"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeReportExportFailed       ErrorCode = "REPORT_EXPORT_FAILED"
	ErrCodeTimeout                  ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal                 ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionFailedError carries the extraction diagnostics as metadata so the
// process can route them to a recruiter.
func NewExtractionFailedError(details string, diagnostics []string) *StandardError {
	e := newError(ErrCodeExtractionFailed, "Could not extract text from CV file", details, false)
	if len(diagnostics) > 0 {
		e.WithMetadata("diagnostics", diagnostics)
	}
	return e
}

func NewAnalysisPreconditionError(candidateID int64) *StandardError {
	return newError(ErrCodeAnalysisPrecondition,
		"No CV text available for ATS analysis",
		fmt.Sprintf("candidateId: %d", candidateID), false)
}

func NewValidationFailedError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details, false)
}

func NewInputParsingFailedError(err error) *StandardError {
	e := newError(ErrCodeInputParsingFailed, "Failed to parse job variables", err.Error(), false)
	e.Cause = err
	return e
}

func NewCandidateNotFoundError(candidateID int64) *StandardError {
	return newError(ErrCodeCandidateNotFound, "Candidate not found",
		fmt.Sprintf("candidateId: %d", candidateID), false)
}

func NewJobPositionNotFoundError(jobID int64) *StandardError {
	return newError(ErrCodeJobPositionNotFound, "Job position not found",
		fmt.Sprintf("jobPositionId: %d", jobID), false)
}

func NewJobPositionNotOpenError(jobID int64, state string) *StandardError {
	return newError(ErrCodeJobPositionNotOpen, "Job position is not open",
		fmt.Sprintf("jobPositionId: %d, state: %s", jobID, state), false)
}

func NewFilterLockedError(jobID int64) *StandardError {
	return newError(ErrCodeFilterLocked, "Auto-filter already running for job position",
		fmt.Sprintf("jobPositionId: %d", jobID), true)
}

func NewDocumentFetchFailedError(source string, err error) *StandardError {
	e := newError(ErrCodeDocumentFetchFailed, "Failed to fetch CV file",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), true)
	e.Cause = err
	return e
}

func NewDocumentTooLargeError(size, limit int) *StandardError {
	return newError(ErrCodeDocumentTooLarge, "CV file exceeds size limit",
		fmt.Sprintf("size: %d bytes, limit: %d bytes", size, limit), false)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	e := newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
	e.Cause = err
	return e
}

// NewQueryExecutionFailedError classifies broken connections and deadlines
// separately from failing statements.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	switch {
	case stderrors.Is(err, driver.ErrBadConn):
		return NewDatabaseConnectionFailedError(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		e := newError(ErrCodeQueryTimeout, "Database query timed out", "operation: "+operation, true)
		e.Cause = err
		return e
	}
	e := newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
	e.Cause = err
	return e
}

func NewCacheError(operation string, err error) *StandardError {
	e := newError(ErrCodeCacheFailed, "Cache operation failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
	e.Cause = err
	return e
}

func NewSearchIndexError(index string, err error) *StandardError {
	e := newError(ErrCodeSearchIndexFailed, "Search index operation failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
	e.Cause = err
	return e
}

func NewPublishFailedError(routingKey string, err error) *StandardError {
	e := newError(ErrCodePublishFailed, "Failed to publish decision event",
		fmt.Sprintf("routingKey: %s, error: %s", routingKey, err.Error()), true)
	e.Cause = err
	return e
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	e := newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
	e.Cause = err
	return e
}

func NewNoRecipientError(channel string, candidateID int64) *StandardError {
	return newError(ErrCodeNoRecipient, "Candidate has no address for channel",
		fmt.Sprintf("channel: %s, candidateId: %d", channel, candidateID), false)
}

func NewInvalidRecipientError(channel string, candidateID int64) *StandardError {
	return newError(ErrCodeNoRecipient, "Candidate address is not valid for channel",
		fmt.Sprintf("channel: %s, candidateId: %d", channel, candidateID), false)
}

func NewReportExportFailedError(err error) *StandardError {
	e := newError(ErrCodeReportExportFailed, "ATS report export failed", err.Error(), true)
	e.Cause = err
	return e
}

func NewTimeoutError(operation string, err error) *StandardError {
	e := newError(ErrCodeTimeout, fmt.Sprintf("Operation '%s' timed out", operation), err.Error(), true)
	e.Cause = err
	return e
}

func NewInternalError(err error) *StandardError {
	e := newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
	e.Cause = err
	return e
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal codes onto the error codes modelled in the
// screening process diagrams. Unmapped codes pass through unchanged.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeExtractionFailed:     "EXTRACTION_FAILED",
	ErrCodeAnalysisPrecondition: "NO_CV_TEXT",
	ErrCodeValidationFailed:     "VALIDATION_FAILED",
	ErrCodeInputParsingFailed:   "VALIDATION_FAILED",
	ErrCodeCandidateNotFound:    "CANDIDATE_NOT_FOUND",
	ErrCodeJobPositionNotFound:  "JOB_POSITION_NOT_FOUND",
	ErrCodeJobPositionNotOpen:   "JOB_POSITION_NOT_OPEN",
	ErrCodeDocumentTooLarge:     "EXTRACTION_FAILED",
	ErrCodeUnsupportedDocument:  "EXTRACTION_FAILED",
	ErrCodeNoRecipient:          "NO_RECIPIENT",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeCacheFailed,
		ErrCodeSearchIndexFailed,
		ErrCodePublishFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeDocumentFetchFailed,
		ErrCodeReportExportFailed:
		return 3

	case ErrCodeQueryTimeout, ErrCodeTimeout, ErrCodeFilterLocked:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a StandardError, or wraps it as an internal error.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// Code returns the StandardError code carried by err, or INTERNAL_ERROR.
func Code(err error) string {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return string(ErrCodeInternal)
}

// GetErrorCategory groups error codes for dashboards and log filtering.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "EXTRACTION") || strings.Contains(codeStr, "DOCUMENT"):
		return "DOCUMENT"
	case strings.Contains(codeStr, "ANALYSIS"):
		return "ANALYSIS"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE") || strings.Contains(codeStr, "LOCKED"):
		return "CACHE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "PUBLISH") || strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "RECIPIENT"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "NOT_FOUND") || strings.Contains(codeStr, "NOT_OPEN"):
		return "BUSINESS"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSING"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
