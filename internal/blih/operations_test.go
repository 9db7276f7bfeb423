package blih_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/blihbetter/internal/blih"
)

const (
	testRepositoryNameConstant = "project"

	testListArrayCaseNameConstant  = "repositories_as_list"
	testListObjectCaseNameConstant = "repositories_as_object"
	testListEmptyCaseNameConstant  = "repositories_missing"
)

func TestListRepositories(testInstance *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name:     testListArrayCaseNameConstant,
			body:     `{"repositories": ["zeta", "alpha"]}`,
			expected: []string{"alpha", "zeta"},
		},
		{
			name:     testListObjectCaseNameConstant,
			body:     `{"message": "Listing repositories", "repositories": {"zeta": {"uuid": "1"}, "alpha": {"uuid": "2"}}}`,
			expected: []string{"alpha", "zeta"},
		},
		{
			name:     testListEmptyCaseNameConstant,
			body:     `{"message": "Listing repositories"}`,
			expected: nil,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			server := newRecordingServer(testInstance, respondJSON(http.StatusOK, testCase.body))
			client := newTestClient(testInstance)

			repositoryNames, listError := client.ListRepositories(context.Background(), testCredentials(server.server.URL))
			require.NoError(testInstance, listError)
			require.Equal(testInstance, testCase.expected, repositoryNames)

			requests := server.recorded()
			require.Len(testInstance, requests, 1)
			require.Equal(testInstance, http.MethodGet, requests[0].Method)
			require.Equal(testInstance, "/repositories", requests[0].Path)
		})
	}
}

func TestCreateRepositoryPayload(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"message": "Repository created"}`))
	client := newTestClient(testInstance)

	message, creationError := client.CreateRepository(context.Background(), testCredentials(server.server.URL), blih.CreateRepositoryRequest{
		Name:        testRepositoryNameConstant,
		Description: "first project",
	})
	require.NoError(testInstance, creationError)
	require.Equal(testInstance, "Repository created", message)

	requests := server.recorded()
	require.Len(testInstance, requests, 1)
	require.Equal(testInstance, http.MethodPost, requests[0].Method)
	require.Equal(testInstance, map[string]any{"name": testRepositoryNameConstant, "type": "git", "description": "first project"}, requests[0].Envelope["data"])

	_, withoutDescriptionError := client.CreateRepository(context.Background(), testCredentials(server.server.URL), blih.CreateRepositoryRequest{Name: testRepositoryNameConstant})
	require.NoError(testInstance, withoutDescriptionError)
	require.Equal(testInstance, map[string]any{"name": testRepositoryNameConstant, "type": "git"}, server.recorded()[1].Envelope["data"])
}

func TestRepositoryOperationsRejectBlankNames(testInstance *testing.T) {
	client := newTestClient(testInstance)
	credentials := testCredentials("http://unused.invalid")

	_, createError := client.CreateRepository(context.Background(), credentials, blih.CreateRepositoryRequest{Name: "  "})
	require.IsType(testInstance, blih.InvalidInputError{}, createError)

	_, infoError := client.RepositoryInfo(context.Background(), credentials, "")
	require.IsType(testInstance, blih.InvalidInputError{}, infoError)

	_, deleteError := client.DeleteRepository(context.Background(), credentials, " ")
	require.IsType(testInstance, blih.InvalidInputError{}, deleteError)

	_, aclsError := client.GetACLs(context.Background(), credentials, "")
	require.IsType(testInstance, blih.InvalidInputError{}, aclsError)

	_, removeKeyError := client.RemoveSSHKey(context.Background(), credentials, "")
	require.IsType(testInstance, blih.InvalidInputError{}, removeKeyError)

	_, uploadError := client.UploadSSHKey(context.Background(), credentials, "\n\n")
	require.IsType(testInstance, blih.InvalidInputError{}, uploadError)
}

func TestRepositoryInfo(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"message": {"url": "https://git.example.test/bob/project", "uuid": "1234", "description": "demo", "public": "False", "creation_time": "1500000000.5"}}`))
	client := newTestClient(testInstance)

	info, infoError := client.RepositoryInfo(context.Background(), testCredentials(server.server.URL), testRepositoryNameConstant)
	require.NoError(testInstance, infoError)
	require.Equal(testInstance, testRepositoryNameConstant, info.Name)
	require.Equal(testInstance, "https://git.example.test/bob/project", info.URL)
	require.Equal(testInstance, "1234", info.UUID)
	require.Equal(testInstance, "demo", info.Description)
	require.Equal(testInstance, "False", info.Public)
	require.Equal(testInstance, int64(1500000000), info.CreationTime.Unix())
	require.Equal(testInstance, 500*time.Millisecond, time.Duration(info.CreationTime.Nanosecond()))
	require.Equal(testInstance, "/repository/project", server.recorded()[0].Path)
}

func TestRepositoryInfoRejectsUnexpectedShape(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"message": "plain text"}`))
	client := newTestClient(testInstance)

	_, infoError := client.RepositoryInfo(context.Background(), testCredentials(server.server.URL), testRepositoryNameConstant)
	require.IsType(testInstance, blih.DecodeError{}, infoError)
}

func TestDeleteRepositoryEscapesName(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"message": "Repository deleted"}`))
	client := newTestClient(testInstance)

	message, deleteError := client.DeleteRepository(context.Background(), testCredentials(server.server.URL), "my repo")
	require.NoError(testInstance, deleteError)
	require.Equal(testInstance, "Repository deleted", message)
	require.Equal(testInstance, http.MethodDelete, server.recorded()[0].Method)
	require.Equal(testInstance, "/repository/my%20repo", server.recorded()[0].Path)
}

func TestGetACLs(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"alice": "rw", "ramassage-tek": "r"}`))
	client := newTestClient(testInstance)

	acls, aclsError := client.GetACLs(context.Background(), testCredentials(server.server.URL), testRepositoryNameConstant)
	require.NoError(testInstance, aclsError)
	require.Equal(testInstance, blih.ACLs{"alice": "rw", "ramassage-tek": "r"}, acls)
	require.Equal(testInstance, []string{"alice", "ramassage-tek"}, acls.Users())
	require.Equal(testInstance, "/repository/project/acls", server.recorded()[0].Path)
}

func TestGetACLsNoACLsCondition(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusNotFound, `{"error":"No ACLs"}`))
	client := newTestClient(testInstance)
	credentials := testCredentials(server.server.URL)

	acls, strictError := client.GetACLs(context.Background(), credentials, testRepositoryNameConstant)
	require.Nil(testInstance, acls)
	var apiError blih.APIError
	require.True(testInstance, errors.As(strictError, &apiError))
	require.Equal(testInstance, http.StatusNotFound, apiError.StatusCode)
	require.Equal(testInstance, "No ACLs", apiError.Message)
	require.ErrorIs(testInstance, strictError, blih.ErrNoACLs)

	emptyACLs, gracefulError := client.GetACLsOrEmpty(context.Background(), credentials, testRepositoryNameConstant)
	require.NoError(testInstance, gracefulError)
	require.NotNil(testInstance, emptyACLs)
	require.Empty(testInstance, emptyACLs)
}

func TestGetACLsOrEmptyKeepsOtherNotFound(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusNotFound, `{"error":"Repository not found"}`))
	client := newTestClient(testInstance)

	_, aclsError := client.GetACLsOrEmpty(context.Background(), testCredentials(server.server.URL), testRepositoryNameConstant)
	require.Error(testInstance, aclsError)
	require.IsType(testInstance, blih.APIError{}, aclsError)
	require.NotErrorIs(testInstance, aclsError, blih.ErrNoACLs)
}

func TestSetACL(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"message": "ACL updated"}`))
	client := newTestClient(testInstance)

	message, setError := client.SetACL(context.Background(), testCredentials(server.server.URL), blih.SetACLRequest{
		Repository: testRepositoryNameConstant,
		User:       "alice",
		ACL:        "war",
	})
	require.NoError(testInstance, setError)
	require.Equal(testInstance, "ACL updated", message)

	requests := server.recorded()
	require.Len(testInstance, requests, 1)
	require.Equal(testInstance, http.MethodPost, requests[0].Method)
	require.Equal(testInstance, "/repository/project/acls", requests[0].Path)
	require.Equal(testInstance, map[string]any{"user": "alice", "acl": "rwa"}, requests[0].Envelope["data"])
}

func TestSetACLValidation(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"message": "ACL updated"}`))
	client := newTestClient(testInstance)
	credentials := testCredentials(server.server.URL)

	_, invalidLettersError := client.SetACL(context.Background(), credentials, blih.SetACLRequest{Repository: testRepositoryNameConstant, User: "alice", ACL: "rx"})
	require.IsType(testInstance, blih.InvalidInputError{}, invalidLettersError)

	_, blankUserError := client.SetACL(context.Background(), credentials, blih.SetACLRequest{Repository: testRepositoryNameConstant, User: " ", ACL: "r"})
	require.IsType(testInstance, blih.InvalidInputError{}, blankUserError)

	require.Empty(testInstance, server.recorded())
}

func TestWhoAmI(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"message": "bob"}`))
	client := newTestClient(testInstance)

	userName, whoAmIError := client.WhoAmI(context.Background(), testCredentials(server.server.URL))
	require.NoError(testInstance, whoAmIError)
	require.Equal(testInstance, "bob", userName)
	require.Equal(testInstance, "/whoami", server.recorded()[0].Path)
}

func TestWhoAmIMissingMessage(testInstance *testing.T) {
	server := newRecordingServer(testInstance, respondJSON(http.StatusOK, `{"status": "ok"}`))
	client := newTestClient(testInstance)

	_, whoAmIError := client.WhoAmI(context.Background(), testCredentials(server.server.URL))
	require.IsType(testInstance, blih.DecodeError{}, whoAmIError)
}

func TestSSHKeyOperations(testInstance *testing.T) {
	server := newRecordingServer(testInstance, func(responseWriter http.ResponseWriter, request *http.Request) {
		switch request.Method {
		case http.MethodGet:
			respondJSON(http.StatusOK, `{"laptop": "ssh-ed25519 AAAA laptop", "desktop": "ssh-rsa BBBB desktop"}`)(responseWriter, request)
		default:
			respondJSON(http.StatusOK, `{"message": "done"}`)(responseWriter, request)
		}
	})
	client := newTestClient(testInstance)
	credentials := testCredentials(server.server.URL)

	sshKeys, listError := client.ListSSHKeys(context.Background(), credentials)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []blih.SSHKey{
		{Name: "desktop", Key: "ssh-rsa BBBB desktop"},
		{Name: "laptop", Key: "ssh-ed25519 AAAA laptop"},
	}, sshKeys)

	uploadMessage, uploadError := client.UploadSSHKey(context.Background(), credentials, "ssh-ed25519 AAAA+b/c= bob@host\n")
	require.NoError(testInstance, uploadError)
	require.Equal(testInstance, "done", uploadMessage)

	removeMessage, removeError := client.RemoveSSHKey(context.Background(), credentials, "bob@host")
	require.NoError(testInstance, removeError)
	require.Equal(testInstance, "done", removeMessage)

	requests := server.recorded()
	require.Len(testInstance, requests, 3)
	require.Equal(testInstance, "/sshkeys", requests[0].Path)
	require.Equal(testInstance, http.MethodPost, requests[1].Method)
	require.Equal(testInstance, "/sshkeys", requests[1].Path)
	require.Equal(testInstance, map[string]any{"sshkey": "ssh-ed25519%20AAAA%2Bb/c%3D%20bob%40host"}, requests[1].Envelope["data"])
	require.Equal(testInstance, http.MethodDelete, requests[2].Method)
	require.Equal(testInstance, "/sshkey/bob@host", requests[2].Path)
}
