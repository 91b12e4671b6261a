package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeCorrectionPending is used when a discrepancy prompt gates the action
	ErrCodeCorrectionPending = "ERR_CORRECTION_PENDING"
	// ErrCodeOperationInFlight is used when a blocking operation is already running
	ErrCodeOperationInFlight = "ERR_OPERATION_IN_FLIGHT"
	// ErrCodeSubmissionFailed is used when the booking gateway rejects a batch
	ErrCodeSubmissionFailed = "ERR_SUBMISSION_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeCorrectionPending: http.StatusConflict,
	ErrCodeOperationInFlight: http.StatusConflict,
	ErrCodeSubmissionFailed:  http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":         ErrCodeNotFound,
	"SESSION_NOT_FOUND": ErrCodeNotFound,
	"ENTRY_NOT_FOUND":   ErrCodeNotFound,

	"NO_ITEMS":           ErrCodeInvalidInput,
	"INVALID_INPUT":      ErrCodeInvalidInput,
	"INVALID_QUANTITY":   ErrCodeInvalidInput,
	"INVALID_AMOUNT":     ErrCodeInvalidInput,
	"INVALID_TARE":       ErrCodeInvalidInput,
	"INVALID_TOLERANCE":  ErrCodeInvalidInput,
	"INVALID_TARGET":     ErrCodeInvalidInput,
	"INVALID_SOURCE":     ErrCodeInvalidInput,
	"INVALID_ARTICLE":    ErrCodeInvalidInput,
	"MISSING_TARGET":     ErrCodeInvalidInput,
	"MISSING_BIN":        ErrCodeInvalidInput,
	"INVALID_MODE":       ErrCodeInvalidInput,
	"INVALID_ACTION":     ErrCodeInvalidInput,
	"VALIDATION_ERROR":   ErrCodeValidation,
	"BAD_REQUEST":        ErrCodeBadRequest,

	"INVALID_CORRECTION":        ErrCodeInvalidInput,
	"INVALID_CORRECTION_TYPE":   ErrCodeInvalidInput,
	"INVALID_CORRECTION_REASON": ErrCodeInvalidInput,
	"INVALID_CORRECTION_AMOUNT": ErrCodeInvalidInput,
	"REASON_POLARITY_MISMATCH":  ErrCodeInvalidInput,

	"SESSION_CLOSED":          ErrCodeInvalidState,
	"INVALID_STEP":            ErrCodeInvalidState,
	"MODE_MISMATCH":           ErrCodeInvalidState,
	"NO_PROMPT":               ErrCodeInvalidState,
	"REGISTERED_TARE_MISSING": ErrCodeInvalidState,
	"EMPTY_BATCH":             ErrCodeInvalidState,

	"CORRECTION_PENDING":    ErrCodeCorrectionPending,
	"SUBMISSION_IN_FLIGHT":  ErrCodeOperationInFlight,
	"MEASUREMENT_IN_FLIGHT": ErrCodeOperationInFlight,
	"SUBMISSION_FAILED":     ErrCodeSubmissionFailed,

	"INSUFFICIENT_STOCK": ErrCodeInsufficientStock,
	"INTERNAL_ERROR":     ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
