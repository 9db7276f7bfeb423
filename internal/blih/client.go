package blih

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// DefaultContentType is sent with every request unless overridden.
	DefaultContentType = "application/json"
	// DefaultTimeout bounds a single request when no timeout is configured.
	DefaultTimeout = 30 * time.Second

	contentTypeHeaderConstant     = "Content-Type"
	userAgentHeaderConstant       = "User-Agent"
	urlFieldNameConstant          = "blih_url"
	methodFieldNameConstant       = "method"
	baseURLTrailingSlashConstant  = "/"
	logMessageRequestConstant     = "blih request"
	logMessageResponseConstant    = "blih response"
	logFieldOperationConstant     = "operation"
	logFieldMethodConstant        = "method"
	logFieldURLConstant           = "url"
	logFieldStatusCodeConstant    = "status_code"
	logFieldSignedPayloadConstant = "signed_payload"
)

// OperationName labels a BLIH API call in errors and logs.
type OperationName string

// ClientConfiguration tunes the HTTP transport.
type ClientConfiguration struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

// RequestOptions describes a single BLIH call.
// URL, when set, is used verbatim; otherwise Resource is appended to the credentials BLIH URL.
type RequestOptions struct {
	Operation   OperationName
	Method      string
	Resource    string
	URL         string
	Payload     any
	ContentType string
}

// Response is the decoded result of a successful call.
type Response struct {
	StatusCode int
	Reason     string
	Header     http.Header
	Body       any
	RawBody    []byte
}

// Client performs signed BLIH requests. It holds no account state: credentials travel with every call.
type Client struct {
	restClient *resty.Client
	logger     *zap.Logger
}

// NewClient constructs a BLIH client backed by resty.
func NewClient(logger *zap.Logger, configuration ClientConfiguration) (*Client, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}

	var restClient *resty.Client
	if configuration.HTTPClient != nil {
		restClient = resty.NewWithClient(configuration.HTTPClient)
	} else {
		restClient = resty.New()
	}

	timeout := configuration.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	restClient.
		SetTimeout(timeout).
		SetAllowGetMethodPayload(true).
		SetLogger(logger.Sugar()).
		SetDisableWarn(true)

	return &Client{restClient: restClient, logger: logger}, nil
}

// Request signs options.Payload, issues exactly one HTTP call and classifies the outcome.
//
// 200 responses are decoded as JSON (DecodeError on failure); 4xx and 5xx
// responses become APIError carrying the server "error" message; any other
// status becomes UnknownError. No retries are attempted.
func (client *Client) Request(executionContext context.Context, credentials Credentials, options RequestOptions) (Response, error) {
	requestURL, urlError := resolveRequestURL(credentials, options)
	if urlError != nil {
		return Response{}, urlError
	}

	method := strings.ToUpper(strings.TrimSpace(options.Method))
	if len(method) == 0 {
		return Response{}, InvalidInputError{FieldName: methodFieldNameConstant, Message: requiredValueMessageConstant}
	}

	contentType := options.ContentType
	if len(contentType) == 0 {
		contentType = DefaultContentType
	}

	envelope, signingError := Sign(credentials, options.Payload)
	if signingError != nil {
		return Response{}, signingError
	}

	requestBody, encodingError := envelope.Encode()
	if encodingError != nil {
		return Response{}, PayloadEncodingError{Cause: encodingError}
	}

	client.logger.Debug(
		logMessageRequestConstant,
		zap.String(logFieldOperationConstant, string(options.Operation)),
		zap.String(logFieldMethodConstant, method),
		zap.String(logFieldURLConstant, requestURL),
		zap.Bool(logFieldSignedPayloadConstant, envelope.HasData()),
	)

	if executionContext == nil {
		executionContext = context.Background()
	}

	restResponse, executionError := client.restClient.R().
		SetContext(executionContext).
		SetHeader(contentTypeHeaderConstant, contentType).
		SetHeader(userAgentHeaderConstant, credentials.UserAgent).
		SetBody(requestBody).
		Execute(method, requestURL)
	if executionError != nil {
		return Response{}, TransportError{Operation: options.Operation, Cause: executionError}
	}

	client.logger.Debug(
		logMessageResponseConstant,
		zap.String(logFieldOperationConstant, string(options.Operation)),
		zap.Int(logFieldStatusCodeConstant, restResponse.StatusCode()),
	)

	return classifyResponse(options.Operation, restResponse.StatusCode(), restResponse.Status(), restResponse.Header(), restResponse.Body())
}

func classifyResponse(operation OperationName, statusCode int, status string, header http.Header, body []byte) (Response, error) {
	switch {
	case statusCode == http.StatusOK:
		decodedBody, decodingError := decodeJSONBody(body)
		if decodingError != nil {
			return Response{}, DecodeError{Operation: operation, Cause: decodingError}
		}
		return Response{
			StatusCode: statusCode,
			Reason:     resolveReason(statusCode, status),
			Header:     header,
			Body:       decodedBody,
			RawBody:    body,
		}, nil
	case statusCode >= http.StatusBadRequest:
		return Response{}, APIError{
			Operation:  operation,
			StatusCode: statusCode,
			Message:    resolveErrorMessage(statusCode, status, body),
		}
	default:
		return Response{}, UnknownError{Operation: operation, StatusCode: statusCode}
	}
}

func resolveRequestURL(credentials Credentials, options RequestOptions) (string, error) {
	absoluteURL := strings.TrimSpace(options.URL)
	if len(absoluteURL) > 0 {
		return absoluteURL, nil
	}

	baseURL := strings.TrimSpace(credentials.BlihURL)
	if len(baseURL) == 0 {
		return "", InvalidInputError{FieldName: urlFieldNameConstant, Message: requiredValueMessageConstant}
	}

	return strings.TrimRight(baseURL, baseURLTrailingSlashConstant) + options.Resource, nil
}

func decodeJSONBody(body []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var decodedBody any
	if decodingError := decoder.Decode(&decodedBody); decodingError != nil {
		return nil, decodingError
	}
	if _, trailingError := decoder.Token(); !errors.Is(trailingError, io.EOF) {
		return nil, ErrTrailingData
	}
	return decodedBody, nil
}

func resolveErrorMessage(statusCode int, status string, body []byte) string {
	var errorBody struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errorBody) == nil && len(errorBody.Error) > 0 {
		return errorBody.Error
	}
	return resolveReason(statusCode, status)
}

func resolveReason(statusCode int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(status), strconv.Itoa(statusCode)))
	if len(reason) > 0 {
		return reason
	}
	return http.StatusText(statusCode)
}
