package models

import (
	"fmt"
	"strings"
)

// Validation issue codes. These are machine-readable and stable; callers
// branch on codes, not messages.
const (
	IssueInvalidExtension    = "invalid_extension"
	IssueFileTooLarge        = "file_too_large"
	IssueMaxCountExceeded    = "max_count_exceeded"
	IssueInvalidDocumentType = "invalid_document_type"
	IssueDuplicateContent    = "duplicate_content"
	IssueVersionMismatch     = "version_mismatch"
	IssueVersionDeleted      = "version_deleted"
	IssueMissingOwner        = "missing_owner"
	IssueInvalidConfidence   = "invalid_confidence_score"
	IssueInvalidStatus       = "invalid_validation_status"
	IssueInvalidAccessLevel  = "invalid_access_level"
	IssueDuplicateTitle      = "duplicate_title"
)

// ValidationIssue is a single machine-readable validation failure.
// Meta carries issue-specific context (rejected extension, computed size,
// current count, and so on).
type ValidationIssue struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// ValidationError aggregates the validation issues that caused an operation
// to abort. It is always raised before any partial write.
type ValidationError struct {
	Issues []ValidationIssue
}

// NewValidationError wraps issues in a ValidationError.
func NewValidationError(issues ...ValidationIssue) *ValidationError {
	return &ValidationError{Issues: issues}
}

// Error implements error.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = fmt.Sprintf("%s: %s", issue.Code, issue.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasCode reports whether any issue carries the given code.
func (e *ValidationError) HasCode(code string) bool {
	for _, issue := range e.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the issue codes in order.
func (e *ValidationError) Codes() []string {
	codes := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		codes[i] = issue.Code
	}
	return codes
}

// InvalidGroupReferenceError reports a group-filter element that is neither
// a group reference nor a parseable group identifier. Group parsing is a
// hard failure: a silently ignored bad reference would silently under- or
// over-filter results.
type InvalidGroupReferenceError struct {
	// Position is the element's index in the input, or -1 when the input
	// itself (not an element) was invalid.
	Position int
	Value    interface{}
}

// Error implements error.
func (e *InvalidGroupReferenceError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("invalid group reference: %v (type %T)", e.Value, e.Value)
	}
	return fmt.Sprintf("invalid group reference at position %d: %v (type %T)",
		e.Position, e.Value, e.Value)
}
