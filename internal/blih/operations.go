package blih

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Operation names reported in errors and logs.
const (
	OperationListRepositories OperationName = "ListRepositories"
	OperationCreateRepository OperationName = "CreateRepository"
	OperationRepositoryInfo   OperationName = "RepositoryInfo"
	OperationDeleteRepository OperationName = "DeleteRepository"
	OperationGetACLs          OperationName = "GetACLs"
	OperationSetACL           OperationName = "SetACL"
	OperationWhoAmI           OperationName = "WhoAmI"
	OperationListSSHKeys      OperationName = "ListSSHKeys"
	OperationUploadSSHKey     OperationName = "UploadSSHKey"
	OperationRemoveSSHKey     OperationName = "RemoveSSHKey"
)

const (
	repositoriesResourceConstant       = "/repositories"
	repositoryResourceTemplateConstant = "/repository/%s"
	aclsResourceTemplateConstant       = "/repository/%s/acls"
	whoAmIResourceConstant             = "/whoami"
	sshKeysResourceConstant            = "/sshkeys"
	sshKeyResourceTemplateConstant     = "/sshkey/%s"

	repositoryTypeGitConstant = "git"

	payloadNameKeyConstant        = "name"
	payloadTypeKeyConstant        = "type"
	payloadDescriptionKeyConstant = "description"
	payloadUserKeyConstant        = "user"
	payloadACLKeyConstant         = "acl"
	payloadSSHKeyKeyConstant      = "sshkey"

	responseMessageKeyConstant      = "message"
	responseRepositoriesKeyConstant = "repositories"
	responseURLKeyConstant          = "url"
	responseUUIDKeyConstant         = "uuid"
	responseDescriptionKeyConstant  = "description"
	responsePublicKeyConstant       = "public"
	responseCreationTimeKeyConstant = "creation_time"

	repositoryNameFieldConstant = "repository"
	aclUserFieldConstant        = "user"
	sshKeyFieldConstant         = "sshkey"
	sshKeyNameFieldConstant     = "sshkey_name"

	sshKeyTrimCharactersConstant = "\n"
)

// CreateRepositoryRequest describes a repository to create.
type CreateRepositoryRequest struct {
	Name        string
	Description string
}

// SetACLRequest grants (or, with an empty ACL, revokes) rights on a repository.
type SetACLRequest struct {
	Repository string
	User       string
	ACL        string
}

// RepositoryInfo is the detail view of a single repository.
type RepositoryInfo struct {
	Name         string
	URL          string
	UUID         string
	Description  string
	Public       string
	CreationTime time.Time
}

// ACLs maps a user name to its permission letters.
type ACLs map[string]string

// Users returns the ACL user names sorted alphabetically.
func (acls ACLs) Users() []string {
	userNames := make([]string, 0, len(acls))
	for userName := range acls {
		userNames = append(userNames, userName)
	}
	sort.Strings(userNames)
	return userNames
}

// SSHKey is a public key registered on the account.
type SSHKey struct {
	Name string
	Key  string
}

// ListRepositories returns the repository names of the account, sorted.
func (client *Client) ListRepositories(executionContext context.Context, credentials Credentials) ([]string, error) {
	response, requestError := client.Request(executionContext, credentials, RequestOptions{
		Operation: OperationListRepositories,
		Method:    http.MethodGet,
		Resource:  repositoriesResourceConstant,
	})
	if requestError != nil {
		return nil, requestError
	}

	bodyObject, isObject := response.Body.(map[string]any)
	if !isObject {
		return nil, responseShapeError(OperationListRepositories)
	}

	var repositoryNames []string
	switch repositories := bodyObject[responseRepositoriesKeyConstant].(type) {
	case []any:
		for _, repository := range repositories {
			repositoryName, isString := repository.(string)
			if !isString {
				return nil, responseShapeError(OperationListRepositories)
			}
			repositoryNames = append(repositoryNames, repositoryName)
		}
	case map[string]any:
		for repositoryName := range repositories {
			repositoryNames = append(repositoryNames, repositoryName)
		}
	case nil:
	default:
		return nil, responseShapeError(OperationListRepositories)
	}

	sort.Strings(repositoryNames)
	return repositoryNames, nil
}

// CreateRepository creates a git repository and returns the server message.
func (client *Client) CreateRepository(executionContext context.Context, credentials Credentials, request CreateRepositoryRequest) (string, error) {
	repositoryName := strings.TrimSpace(request.Name)
	if len(repositoryName) == 0 {
		return "", InvalidInputError{FieldName: repositoryNameFieldConstant, Message: requiredValueMessageConstant}
	}

	payload := map[string]any{
		payloadNameKeyConstant: repositoryName,
		payloadTypeKeyConstant: repositoryTypeGitConstant,
	}
	if len(request.Description) > 0 {
		payload[payloadDescriptionKeyConstant] = request.Description
	}

	return client.requestMessage(executionContext, credentials, RequestOptions{
		Operation: OperationCreateRepository,
		Method:    http.MethodPost,
		Resource:  repositoriesResourceConstant,
		Payload:   payload,
	})
}

// RepositoryInfo fetches the detail of a repository.
func (client *Client) RepositoryInfo(executionContext context.Context, credentials Credentials, repositoryName string) (RepositoryInfo, error) {
	resource, resourceError := repositoryResource(repositoryResourceTemplateConstant, repositoryName)
	if resourceError != nil {
		return RepositoryInfo{}, resourceError
	}

	response, requestError := client.Request(executionContext, credentials, RequestOptions{
		Operation: OperationRepositoryInfo,
		Method:    http.MethodGet,
		Resource:  resource,
	})
	if requestError != nil {
		return RepositoryInfo{}, requestError
	}

	bodyObject, isObject := response.Body.(map[string]any)
	if !isObject {
		return RepositoryInfo{}, responseShapeError(OperationRepositoryInfo)
	}
	detail, isDetailObject := bodyObject[responseMessageKeyConstant].(map[string]any)
	if !isDetailObject {
		return RepositoryInfo{}, responseShapeError(OperationRepositoryInfo)
	}

	creationTime, creationTimeError := parseUnixTimestamp(detail[responseCreationTimeKeyConstant])
	if creationTimeError != nil {
		return RepositoryInfo{}, DecodeError{Operation: OperationRepositoryInfo, Cause: creationTimeError}
	}

	return RepositoryInfo{
		Name:         strings.TrimSpace(repositoryName),
		URL:          stringifyValue(detail[responseURLKeyConstant]),
		UUID:         stringifyValue(detail[responseUUIDKeyConstant]),
		Description:  stringifyValue(detail[responseDescriptionKeyConstant]),
		Public:       stringifyValue(detail[responsePublicKeyConstant]),
		CreationTime: creationTime,
	}, nil
}

// DeleteRepository removes a repository and returns the server message.
func (client *Client) DeleteRepository(executionContext context.Context, credentials Credentials, repositoryName string) (string, error) {
	resource, resourceError := repositoryResource(repositoryResourceTemplateConstant, repositoryName)
	if resourceError != nil {
		return "", resourceError
	}

	return client.requestMessage(executionContext, credentials, RequestOptions{
		Operation: OperationDeleteRepository,
		Method:    http.MethodDelete,
		Resource:  resource,
	})
}

// GetACLs returns the ACLs of a repository. A repository without ACLs yields an
// APIError matching ErrNoACLs.
func (client *Client) GetACLs(executionContext context.Context, credentials Credentials, repositoryName string) (ACLs, error) {
	resource, resourceError := repositoryResource(aclsResourceTemplateConstant, repositoryName)
	if resourceError != nil {
		return nil, resourceError
	}

	response, requestError := client.Request(executionContext, credentials, RequestOptions{
		Operation: OperationGetACLs,
		Method:    http.MethodGet,
		Resource:  resource,
	})
	if requestError != nil {
		return nil, requestError
	}

	bodyObject, isObject := response.Body.(map[string]any)
	if !isObject {
		return nil, responseShapeError(OperationGetACLs)
	}

	acls := make(ACLs, len(bodyObject))
	for userName, rights := range bodyObject {
		acls[userName] = stringifyValue(rights)
	}
	return acls, nil
}

// GetACLsOrEmpty behaves like GetACLs but reports a repository without ACLs as an empty mapping.
func (client *Client) GetACLsOrEmpty(executionContext context.Context, credentials Credentials, repositoryName string) (ACLs, error) {
	acls, aclsError := client.GetACLs(executionContext, credentials, repositoryName)
	if errors.Is(aclsError, ErrNoACLs) {
		return ACLs{}, nil
	}
	return acls, aclsError
}

// SetACL updates the rights of a user on a repository and returns the server message.
func (client *Client) SetACL(executionContext context.Context, credentials Credentials, request SetACLRequest) (string, error) {
	resource, resourceError := repositoryResource(aclsResourceTemplateConstant, request.Repository)
	if resourceError != nil {
		return "", resourceError
	}

	userName := strings.TrimSpace(request.User)
	if len(userName) == 0 {
		return "", InvalidInputError{FieldName: aclUserFieldConstant, Message: requiredValueMessageConstant}
	}

	normalizedACL, aclError := NormalizeACL(request.ACL)
	if aclError != nil {
		return "", aclError
	}

	return client.requestMessage(executionContext, credentials, RequestOptions{
		Operation: OperationSetACL,
		Method:    http.MethodPost,
		Resource:  resource,
		Payload: map[string]any{
			payloadUserKeyConstant: userName,
			payloadACLKeyConstant:  normalizedACL,
		},
	})
}

// WhoAmI returns the account name the server associates with the credentials.
func (client *Client) WhoAmI(executionContext context.Context, credentials Credentials) (string, error) {
	return client.requestMessage(executionContext, credentials, RequestOptions{
		Operation: OperationWhoAmI,
		Method:    http.MethodGet,
		Resource:  whoAmIResourceConstant,
	})
}

// ListSSHKeys returns the registered keys sorted by name.
func (client *Client) ListSSHKeys(executionContext context.Context, credentials Credentials) ([]SSHKey, error) {
	response, requestError := client.Request(executionContext, credentials, RequestOptions{
		Operation: OperationListSSHKeys,
		Method:    http.MethodGet,
		Resource:  sshKeysResourceConstant,
	})
	if requestError != nil {
		return nil, requestError
	}

	bodyObject, isObject := response.Body.(map[string]any)
	if !isObject {
		return nil, responseShapeError(OperationListSSHKeys)
	}

	sshKeys := make([]SSHKey, 0, len(bodyObject))
	for keyName, keyValue := range bodyObject {
		sshKeys = append(sshKeys, SSHKey{Name: keyName, Key: stringifyValue(keyValue)})
	}
	sort.Slice(sshKeys, func(leftIndex int, rightIndex int) bool {
		return sshKeys[leftIndex].Name < sshKeys[rightIndex].Name
	})
	return sshKeys, nil
}

// UploadSSHKey registers a public key. Trailing and leading newlines are trimmed
// and the key is percent-encoded before signing.
func (client *Client) UploadSSHKey(executionContext context.Context, credentials Credentials, keyText string) (string, error) {
	trimmedKey := strings.Trim(keyText, sshKeyTrimCharactersConstant)
	if len(strings.TrimSpace(trimmedKey)) == 0 {
		return "", InvalidInputError{FieldName: sshKeyFieldConstant, Message: requiredValueMessageConstant}
	}

	return client.requestMessage(executionContext, credentials, RequestOptions{
		Operation: OperationUploadSSHKey,
		Method:    http.MethodPost,
		Resource:  sshKeysResourceConstant,
		Payload:   map[string]any{payloadSSHKeyKeyConstant: QuoteSSHKey(trimmedKey)},
	})
}

// RemoveSSHKey deletes a registered key by name.
func (client *Client) RemoveSSHKey(executionContext context.Context, credentials Credentials, keyName string) (string, error) {
	trimmedName := strings.TrimSpace(keyName)
	if len(trimmedName) == 0 {
		return "", InvalidInputError{FieldName: sshKeyNameFieldConstant, Message: requiredValueMessageConstant}
	}

	return client.requestMessage(executionContext, credentials, RequestOptions{
		Operation: OperationRemoveSSHKey,
		Method:    http.MethodDelete,
		Resource:  fmt.Sprintf(sshKeyResourceTemplateConstant, url.PathEscape(trimmedName)),
	})
}

func (client *Client) requestMessage(executionContext context.Context, credentials Credentials, options RequestOptions) (string, error) {
	response, requestError := client.Request(executionContext, credentials, options)
	if requestError != nil {
		return "", requestError
	}
	return MessageFromBody(options.Operation, response.Body)
}

// MessageFromBody extracts the "message" field of a decoded response body.
func MessageFromBody(operation OperationName, body any) (string, error) {
	bodyObject, isObject := body.(map[string]any)
	if !isObject {
		return "", responseShapeError(operation)
	}
	message, hasMessage := bodyObject[responseMessageKeyConstant]
	if !hasMessage {
		return "", responseShapeError(operation)
	}
	return stringifyValue(message), nil
}

func repositoryResource(template string, repositoryName string) (string, error) {
	trimmedName := strings.TrimSpace(repositoryName)
	if len(trimmedName) == 0 {
		return "", InvalidInputError{FieldName: repositoryNameFieldConstant, Message: requiredValueMessageConstant}
	}
	return fmt.Sprintf(template, url.PathEscape(trimmedName)), nil
}

func responseShapeError(operation OperationName) error {
	return DecodeError{Operation: operation, Cause: fmt.Errorf(unexpectedResponseShapeTemplateConstant, operation)}
}

func stringifyValue(value any) string {
	switch typedValue := value.(type) {
	case nil:
		return ""
	case string:
		return typedValue
	case json.Number:
		return typedValue.String()
	case bool:
		return strconv.FormatBool(typedValue)
	default:
		encodedValue, encodingError := json.Marshal(typedValue)
		if encodingError != nil {
			return fmt.Sprint(typedValue)
		}
		return string(encodedValue)
	}
}

func parseUnixTimestamp(value any) (time.Time, error) {
	rawTimestamp := strings.TrimSpace(stringifyValue(value))
	if len(rawTimestamp) == 0 {
		return time.Time{}, nil
	}

	seconds, parseError := strconv.ParseFloat(rawTimestamp, 64)
	if parseError != nil {
		return time.Time{}, parseError
	}

	wholeSeconds := int64(seconds)
	nanoseconds := int64((seconds - float64(wholeSeconds)) * float64(time.Second))
	return time.Unix(wholeSeconds, nanoseconds), nil
}
