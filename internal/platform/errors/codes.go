// Package errors provides structured error handling for the client and the
// development backend.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Exchange errors
	CodeRemoteFailure    Code = "REMOTE_FAILURE"
	CodeTransportFailure Code = "TRANSPORT_FAILURE"
	CodeIdentityFailure  Code = "IDENTITY_FAILURE"

	// Session guard warnings
	CodeNotIdentified Code = "NOT_IDENTIFIED"
	CodeNoClasses     Code = "NO_CLASSES"
	CodeEmailRequired Code = "EMAIL_REQUIRED"

	// Synchronization errors
	CodeUnknownCollection Code = "UNKNOWN_COLLECTION"

	// Backend validation and lookup errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
)

// Metadata keys attached to exchange errors.
const (
	MetaStatus    = "status"
	MetaOperation = "operation"
	MetaKind      = "kind"
)

// IsWarning reports whether the code is a guard that fired before any request.
func (c Code) IsWarning() bool {
	switch c {
	case CodeNotIdentified, CodeNoClasses, CodeEmailRequired:
		return true
	default:
		return false
	}
}

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument, CodeEmailRequired:
		return http.StatusBadRequest
	case CodeNotFound, CodeUnknownCollection:
		return http.StatusNotFound
	case CodeNotIdentified, CodeNoClasses:
		return http.StatusConflict
	case CodeTransportFailure, CodeRemoteFailure, CodeIdentityFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
