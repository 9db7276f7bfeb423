package blih_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/blihbetter/internal/blih"
)

const (
	testDeleteMessageConstant = "Repository foo deleted"

	testStatusNotJSONCaseNameConstant        = "ok_with_non_json_body"
	testStatusTrailingDataCaseNameConstant   = "trailing_garbage"
	testStatusServerErrorCaseNameConstant    = "server_error_with_message"
	testStatusForbiddenPlainCaseNameConstant = "forbidden_without_json_body"
	testStatusCreatedCaseNameConstant        = "created_is_unknown"
	testStatusNoACLsCaseNameConstant         = "not_found_no_acls"
)

type recordedRequest struct {
	Method      string
	Path        string
	UserAgent   string
	ContentType string
	Envelope    map[string]any
}

type recordingServer struct {
	server   *httptest.Server
	mutex    sync.Mutex
	requests []recordedRequest
}

func newRecordingServer(testInstance *testing.T, handler func(responseWriter http.ResponseWriter, request *http.Request)) *recordingServer {
	testInstance.Helper()
	recorder := &recordingServer{}
	recorder.server = httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		requestBody, readError := io.ReadAll(request.Body)
		require.NoError(testInstance, readError)

		var envelope map[string]any
		if len(requestBody) > 0 {
			require.NoError(testInstance, json.Unmarshal(requestBody, &envelope))
		}

		recorder.mutex.Lock()
		recorder.requests = append(recorder.requests, recordedRequest{
			Method:      request.Method,
			Path:        request.URL.EscapedPath(),
			UserAgent:   request.Header.Get("User-Agent"),
			ContentType: request.Header.Get("Content-Type"),
			Envelope:    envelope,
		})
		recorder.mutex.Unlock()

		handler(responseWriter, request)
	}))
	testInstance.Cleanup(recorder.server.Close)
	return recorder
}

func (recorder *recordingServer) recorded() []recordedRequest {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	return append([]recordedRequest(nil), recorder.requests...)
}

func respondJSON(statusCode int, body string) func(http.ResponseWriter, *http.Request) {
	return func(responseWriter http.ResponseWriter, request *http.Request) {
		responseWriter.Header().Set("Content-Type", "application/json")
		responseWriter.WriteHeader(statusCode)
		_, _ = io.WriteString(responseWriter, body)
	}
}

func newTestClient(testInstance *testing.T) *blih.Client {
	testInstance.Helper()
	client, creationError := blih.NewClient(zap.NewNop(), blih.ClientConfiguration{})
	require.NoError(testInstance, creationError)
	return client
}

func TestNewClientValidation(testInstance *testing.T) {
	testInstance.Run("nil_logger", func(testInstance *testing.T) {
		client, creationError := blih.NewClient(nil, blih.ClientConfiguration{})
		require.ErrorIs(testInstance, creationError, blih.ErrLoggerNotConfigured)
		require.Nil(testInstance, client)
	})
}

func TestRequestDeleteReturnsBodyVerbatim(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"message": "`+testDeleteMessageConstant+`"}`))
	client := newTestClient(testInstance)

	response, requestError := client.Request(context.Background(), testCredentials(server.server.URL+"/"), blih.RequestOptions{
		Operation: blih.OperationDeleteRepository,
		Method:    http.MethodDelete,
		Resource:  "/repository/foo",
	})
	require.NoError(testInstance, requestError)
	require.Equal(testInstance, http.StatusOK, response.StatusCode)
	require.Equal(testInstance, "OK", response.Reason)
	require.Equal(testInstance, map[string]any{"message": testDeleteMessageConstant}, response.Body)

	requests := server.recorded()
	require.Len(testInstance, requests, 1)
	require.Equal(testInstance, http.MethodDelete, requests[0].Method)
	require.Equal(testInstance, "/repository/foo", requests[0].Path)
	require.Equal(testInstance, testUserAgentConstant, requests[0].UserAgent)
	require.Equal(testInstance, blih.DefaultContentType, requests[0].ContentType)
	require.Equal(testInstance, testUserConstant, requests[0].Envelope["user"])
	require.Equal(testInstance, expectedSignature([]byte(testUserConstant)), requests[0].Envelope["signature"])
	require.NotContains(testInstance, requests[0].Envelope, "data")
}

func TestRequestGetCarriesSignedBody(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"message": "bob"}`))
	client := newTestClient(testInstance)

	_, requestError := client.Request(context.Background(), testCredentials(server.server.URL), blih.RequestOptions{
		Operation:   blih.OperationWhoAmI,
		Method:      http.MethodGet,
		Resource:    "/whoami",
		Payload:     map[string]any{"probe": "value"},
		ContentType: "application/vnd.test+json",
	})
	require.NoError(testInstance, requestError)

	requests := server.recorded()
	require.Len(testInstance, requests, 1)
	require.Equal(testInstance, http.MethodGet, requests[0].Method)
	require.Equal(testInstance, "application/vnd.test+json", requests[0].ContentType)

	payload, hasPayload := requests[0].Envelope["data"]
	require.True(testInstance, hasPayload)
	canonicalPayload, canonicalError := blih.CanonicalJSON(payload)
	require.NoError(testInstance, canonicalError)
	require.Equal(testInstance, expectedSignature(append([]byte(testUserConstant), canonicalPayload...)), requests[0].Envelope["signature"])
}

func TestRequestUsesAbsoluteURL(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"message": "ok"}`))
	client := newTestClient(testInstance)

	_, requestError := client.Request(context.Background(), testCredentials("http://unused.invalid"), blih.RequestOptions{
		Method: http.MethodGet,
		URL:    server.server.URL + "/custom/path",
	})
	require.NoError(testInstance, requestError)
	require.Equal(testInstance, "/custom/path", server.recorded()[0].Path)
}

func TestRequestStatusClassification(testInstance *testing.T) {
	testCases := []struct {
		name      string
		handler   func(http.ResponseWriter, *http.Request)
		errorType any
		verify    func(testInstance *testing.T, requestError error)
	}{
		{
			name: testStatusNotJSONCaseNameConstant,
			handler: func(responseWriter http.ResponseWriter, request *http.Request) {
				responseWriter.WriteHeader(http.StatusOK)
				_, _ = io.WriteString(responseWriter, "<html>not json</html>")
			},
			errorType: blih.DecodeError{},
		},
		{
			name:      testStatusTrailingDataCaseNameConstant,
			handler:   respondJSON(http.StatusOK, `{"message": "bob"} <html>oops</html>`),
			errorType: blih.DecodeError{},
			verify: func(testInstance *testing.T, requestError error) {
				require.ErrorIs(testInstance, requestError, blih.ErrTrailingData)
			},
		},
		{
			name:      testStatusServerErrorCaseNameConstant,
			handler:   respondJSON(http.StatusInternalServerError, `{"error": "Internal failure"}`),
			errorType: blih.APIError{},
			verify: func(testInstance *testing.T, requestError error) {
				var apiError blih.APIError
				require.True(testInstance, errors.As(requestError, &apiError))
				require.Equal(testInstance, http.StatusInternalServerError, apiError.StatusCode)
				require.Equal(testInstance, "Internal failure", apiError.Message)
				require.NotErrorIs(testInstance, requestError, blih.ErrNoACLs)
			},
		},
		{
			name: testStatusForbiddenPlainCaseNameConstant,
			handler: func(responseWriter http.ResponseWriter, request *http.Request) {
				responseWriter.WriteHeader(http.StatusForbidden)
				_, _ = io.WriteString(responseWriter, "denied")
			},
			errorType: blih.APIError{},
			verify: func(testInstance *testing.T, requestError error) {
				var apiError blih.APIError
				require.True(testInstance, errors.As(requestError, &apiError))
				require.Equal(testInstance, "Forbidden", apiError.Message)
			},
		},
		{
			name:      testStatusCreatedCaseNameConstant,
			handler:   respondJSON(http.StatusCreated, `{"message": "created"}`),
			errorType: blih.UnknownError{},
			verify: func(testInstance *testing.T, requestError error) {
				var unknownError blih.UnknownError
				require.True(testInstance, errors.As(requestError, &unknownError))
				require.Equal(testInstance, http.StatusCreated, unknownError.StatusCode)
			},
		},
		{
			name:      testStatusNoACLsCaseNameConstant,
			handler:   respondJSON(http.StatusNotFound, `{"error": "No ACLs"}`),
			errorType: blih.APIError{},
			verify: func(testInstance *testing.T, requestError error) {
				require.ErrorIs(testInstance, requestError, blih.ErrNoACLs)
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			server := newRecordingServer(testInstance, testCase.handler)
			client := newTestClient(testInstance)

			_, requestError := client.Request(context.Background(), testCredentials(server.server.URL), blih.RequestOptions{
				Operation: blih.OperationWhoAmI,
				Method:    http.MethodGet,
				Resource:  "/whoami",
			})
			require.Error(testInstance, requestError)
			require.IsType(testInstance, testCase.errorType, requestError)
			if testCase.verify != nil {
				testCase.verify(testInstance, requestError)
			}
		})
	}
}

func TestRequestTransportFailure(testInstance *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := newTestClient(testInstance)
	_, requestError := client.Request(context.Background(), testCredentials(serverURL), blih.RequestOptions{
		Operation: blih.OperationWhoAmI,
		Method:    http.MethodGet,
		Resource:  "/whoami",
	})
	require.Error(testInstance, requestError)
	require.IsType(testInstance, blih.TransportError{}, requestError)
}

func TestRequestInputValidation(testInstance *testing.T) {
	client := newTestClient(testInstance)

	_, missingURLError := client.Request(context.Background(), testCredentials(""), blih.RequestOptions{Method: http.MethodGet, Resource: "/whoami"})
	require.IsType(testInstance, blih.InvalidInputError{}, missingURLError)

	_, missingMethodError := client.Request(context.Background(), testCredentials("http://unused.invalid"), blih.RequestOptions{Resource: "/whoami"})
	require.IsType(testInstance, blih.InvalidInputError{}, missingMethodError)
}
