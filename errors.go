package draftflow

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeUsage     ErrorType = "usage"
	ErrorTypeProtocol  ErrorType = "protocol"
	ErrorTypeConflict  ErrorType = "conflict"
	ErrorTypeCancelled ErrorType = "cancelled"
	ErrorTypeRecovery  ErrorType = "recovery"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeInternal  ErrorType = "internal"
)

// DraftError represents unified errors raised by the draft orchestrator
type DraftError struct {
	Type      ErrorType      `json:"type"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Path      string         `json:"path,omitempty"`
	Operation DraftOperation `json:"operation,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
}

func (e *DraftError) Error() string {
	if e.Path != "" && e.Operation != "" {
		return fmt.Sprintf("[%s:%s] %s on %s: %s", e.Type, e.Code, e.Operation, e.Path, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Type, e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

func (e *DraftError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a single detail to a DraftError
func (e *DraftError) WithDetail(key string, value any) *DraftError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause adds a cause to a DraftError
func (e *DraftError) WithCause(cause error) *DraftError {
	e.Cause = cause
	return e
}

// WithPath adds the entity path the error relates to
func (e *DraftError) WithPath(path string) *DraftError {
	e.Path = path
	return e
}

// WithOperation adds the draft operation the error relates to
func (e *DraftError) WithOperation(op DraftOperation) *DraftError {
	e.Operation = op
	return e
}

// Error codes raised by the orchestrator
const (
	// Usage/precondition errors: programmer misuse, never retried
	ErrCodeNotActiveEntity     = "NOT_ACTIVE_ENTITY"
	ErrCodeNotDraftEntity      = "NOT_DRAFT_ENTITY"
	ErrCodeMissingContext      = "MISSING_CONTEXT"
	ErrCodeSiblingPathMismatch = "SIBLING_PATH_MISMATCH"

	// Protocol errors
	ErrCodeActionNotDefined = "ACTION_NOT_DEFINED"
	ErrCodeExecutionFailed  = "EXECUTION_FAILED"
	ErrCodeBatchSubmit      = "BATCH_SUBMIT_FAILED"

	// Conflict errors from the Edit choreography
	ErrCodeDocumentLocked = "DOCUMENT_LOCKED"

	// Cancellation and extension vetoes
	ErrCodeCreationCancelled = "CREATION_CANCELLED"
	ErrCodeActivationVetoed  = "ACTIVATION_VETOED"

	// Configuration errors
	ErrCodeInvalidConfig = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// ============================================================================
// DraftError Constructors
// ============================================================================

// NewDraftError creates a new DraftError
func NewDraftError(errorType ErrorType, code, message string) *DraftError {
	return &DraftError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}
}

// NewNotActiveEntityError reports an Edit invocation on a draft instance
func NewNotActiveEntityError(path string) *DraftError {
	return &DraftError{
		Type:      ErrorTypeUsage,
		Code:      ErrCodeNotActiveEntity,
		Message:   "edit action requires an active document",
		Path:      path,
		Operation: OperationEdit,
		Details:   make(map[string]any),
	}
}

// NewNotDraftEntityError reports a draft-only operation invoked on an active
// instance
func NewNotDraftEntityError(path string, op DraftOperation, message string) *DraftError {
	return &DraftError{
		Type:      ErrorTypeUsage,
		Code:      ErrCodeNotDraftEntity,
		Message:   message,
		Path:      path,
		Operation: op,
		Details:   make(map[string]any),
	}
}

// NewSiblingPathMismatchError reports a sibling resolution where the deep path
// does not extend the root path
func NewSiblingPathMismatchError(rootPath, deepPath string) *DraftError {
	e := &DraftError{
		Type:    ErrorTypeUsage,
		Code:    ErrCodeSiblingPathMismatch,
		Message: "deepest context path must start with the root context path",
		Path:    deepPath,
		Details: make(map[string]any),
	}
	return e.WithDetail("rootPath", rootPath)
}

// NewActionNotDefinedError reports a service that does not annotate the
// requested draft operation
func NewActionNotDefinedError(path string, op DraftOperation) *DraftError {
	return &DraftError{
		Type:      ErrorTypeProtocol,
		Code:      ErrCodeActionNotDefined,
		Message:   "service does not define this draft operation",
		Path:      path,
		Operation: op,
		Details:   make(map[string]any),
	}
}

// NewExecutionError wraps a transport failure of a draft operation
func NewExecutionError(path string, op DraftOperation, cause error) *DraftError {
	return &DraftError{
		Type:      ErrorTypeProtocol,
		Code:      ErrCodeExecutionFailed,
		Message:   "draft operation failed",
		Path:      path,
		Operation: op,
		Cause:     cause,
		Details:   make(map[string]any),
	}
}

// NewDocumentLockedError reports a draft exclusively locked by another user
func NewDocumentLockedError(path, message string) *DraftError {
	return &DraftError{
		Type:    ErrorTypeConflict,
		Code:    ErrCodeDocumentLocked,
		Message: message,
		Path:    path,
		Details: make(map[string]any),
	}
}

// NewCreationCancelledError reports that the user declined to overwrite
// another user's unsaved changes. The message shape is kept stable for log
// continuity with older clients.
func NewCreationCancelledError(path string) *DraftError {
	return &DraftError{
		Type:    ErrorTypeCancelled,
		Code:    ErrCodeCreationCancelled,
		Message: "Draft creation aborted for document: " + path,
		Path:    path,
		Details: make(map[string]any),
	}
}

// NewActivationVetoedError reports a before-activation extension returning
// falsy
func NewActivationVetoedError(path string) *DraftError {
	return &DraftError{
		Type:      ErrorTypeUsage,
		Code:      ErrCodeActivationVetoed,
		Message:   "activation aborted by extension",
		Path:      path,
		Operation: OperationActivation,
		Details:   make(map[string]any),
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *DraftError {
	return &DraftError{
		Type:    ErrorTypeInternal,
		Code:    ErrCodeInternalError,
		Message: message,
		Cause:   cause,
		Details: make(map[string]any),
	}
}

// ============================================================================
// Classification helpers
// ============================================================================

// HTTPStatusCarrier is implemented by transport errors that expose the HTTP
// status of the failed request.
type HTTPStatusCarrier interface {
	HTTPStatus() int
}

// ConflictKindOf walks the error chain and maps the carried HTTP status to a
// ConflictKind. Errors without a status map to ConflictNone.
func ConflictKindOf(err error) ConflictKind {
	var carrier HTTPStatusCarrier
	if !errors.As(err, &carrier) {
		return ConflictNone
	}
	switch carrier.HTTPStatus() {
	case 409:
		return ConflictAnotherDraftExists
	case 412:
		return ConflictPreconditionWarning
	case 423:
		return ConflictLocked
	default:
		return ConflictNone
	}
}

// IsCancellation reports whether err represents the user declining the
// overwrite confirmation.
func IsCancellation(err error) bool {
	var draftErr *DraftError
	if errors.As(err, &draftErr) {
		return draftErr.Type == ErrorTypeCancelled
	}
	return false
}

// IsUsageError reports whether err represents programmer misuse of the API.
func IsUsageError(err error) bool {
	var draftErr *DraftError
	if errors.As(err, &draftErr) {
		return draftErr.Type == ErrorTypeUsage
	}
	return false
}
