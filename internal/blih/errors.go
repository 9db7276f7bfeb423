package blih

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	noACLsMessageConstant                   = "No ACLs"
	loggerNotConfiguredMessageConstant      = "blih client logger not configured"
	apiErrorTemplateConstant                = "HTTP Error %d : %s"
	apiErrorWithOperationTemplateConstant   = "%s: HTTP Error %d : %s"
	decodeErrorTemplateConstant             = "%s: can't decode data: %s"
	decodeErrorWithoutOperationTemplate     = "can't decode data: %s"
	unknownErrorTemplateConstant            = "%s: unknown error (HTTP status %d)"
	unknownErrorWithoutOperationTemplate    = "unknown error (HTTP status %d)"
	transportErrorTemplateConstant          = "%s: request failed: %s"
	transportErrorWithoutOperationTemplate  = "request failed: %s"
	payloadEncodingErrorTemplateConstant    = "payload encoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	requiredValueMessageConstant            = "value required"
	unexpectedResponseShapeTemplateConstant = "unexpected response shape for %s"
	trailingDataMessageConstant             = "extra data after JSON value"
)

var (
	// ErrNoACLs matches the 404 "No ACLs" answer of the ACL listing endpoint.
	ErrNoACLs = errors.New(noACLsMessageConstant)
	// ErrLoggerNotConfigured indicates the client was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrTrailingData indicates a response body holding more than one JSON value.
	ErrTrailingData = errors.New(trailingDataMessageConstant)
)

// APIError reports a request rejected by the server with a non-2xx status.
type APIError struct {
	Operation  OperationName
	StatusCode int
	Message    string
}

// Error describes the rejection using the server-provided message.
func (apiError APIError) Error() string {
	if len(apiError.Operation) == 0 {
		return fmt.Sprintf(apiErrorTemplateConstant, apiError.StatusCode, apiError.Message)
	}
	return fmt.Sprintf(apiErrorWithOperationTemplateConstant, apiError.Operation, apiError.StatusCode, apiError.Message)
}

// Is matches ErrNoACLs for the 404 "No ACLs" answer so callers can tell it apart from other 404s.
func (apiError APIError) Is(target error) bool {
	return target == ErrNoACLs && apiError.StatusCode == http.StatusNotFound && apiError.Message == noACLsMessageConstant
}

// DecodeError indicates a successful response whose body is not valid JSON.
type DecodeError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodeError DecodeError) Error() string {
	if len(decodeError.Operation) == 0 {
		return fmt.Sprintf(decodeErrorWithoutOperationTemplate, decodeError.Cause)
	}
	return fmt.Sprintf(decodeErrorTemplateConstant, decodeError.Operation, decodeError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodeError DecodeError) Unwrap() error {
	return decodeError.Cause
}

// UnknownError indicates a status that is neither 200 nor a recognized failure.
type UnknownError struct {
	Operation  OperationName
	StatusCode int
}

// Error describes the unexpected status.
func (unknownError UnknownError) Error() string {
	if len(unknownError.Operation) == 0 {
		return fmt.Sprintf(unknownErrorWithoutOperationTemplate, unknownError.StatusCode)
	}
	return fmt.Sprintf(unknownErrorTemplateConstant, unknownError.Operation, unknownError.StatusCode)
}

// TransportError wraps failures that happened before any HTTP status was received.
type TransportError struct {
	Operation OperationName
	Cause     error
}

// Error describes the transport failure.
func (transportError TransportError) Error() string {
	if len(transportError.Operation) == 0 {
		return fmt.Sprintf(transportErrorWithoutOperationTemplate, transportError.Cause)
	}
	return fmt.Sprintf(transportErrorTemplateConstant, transportError.Operation, transportError.Cause)
}

// Unwrap exposes the underlying transport error.
func (transportError TransportError) Unwrap() error {
	return transportError.Cause
}

// PayloadEncodingError indicates a payload that cannot be rendered as JSON.
type PayloadEncodingError struct {
	Cause error
}

// Error describes the encoding failure.
func (encodingError PayloadEncodingError) Error() string {
	return fmt.Sprintf(payloadEncodingErrorTemplateConstant, encodingError.Cause)
}

// Unwrap exposes the underlying error.
func (encodingError PayloadEncodingError) Unwrap() error {
	return encodingError.Cause
}

// InvalidInputError surfaces validation issues detected before a request is sent.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}
