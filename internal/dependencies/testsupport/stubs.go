// Package testsupport provides in-memory collaborators for command tests.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/execshell"
)

const (
	repositoryCreatedTemplateConstant = "Repository '%s' created"
	repositoryDeletedTemplateConstant = "Repository '%s' deleted"
	aclUpdatedMessageConstant         = "ACLs updated"
	sshKeyUploadedMessageConstant     = "Public key successfully uploaded"
	sshKeyRemovedTemplateConstant     = "Public key '%s' removed"
	repositoryNotFoundMessageConstant = "Repository not found"
	repositoryExistsMessageConstant   = "Repository already exists"
	sshKeyNotFoundMessageConstant     = "Key not found"
	noACLsMessageConstant             = "No ACLs"
)

// CredentialsLoaderStub returns fixed credentials or a fixed error.
type CredentialsLoaderStub struct {
	Credentials blih.Credentials
	LoadError   error
}

// Load returns the configured outcome.
func (loader CredentialsLoaderStub) Load() (blih.Credentials, error) {
	if loader.LoadError != nil {
		return blih.Credentials{}, loader.LoadError
	}
	return loader.Credentials, nil
}

// BlihClientStub emulates a BLIH server in memory and records every call.
type BlihClientStub struct {
	Repositories        map[string]blih.RepositoryInfo
	RepositoryACLs      map[string]blih.ACLs
	SSHKeys             []blih.SSHKey
	WhoAmIMessage       string
	Errors              map[blih.OperationName]error
	Operations          []blih.OperationName
	ReceivedCredentials []blih.Credentials
	CreateRequests      []blih.CreateRepositoryRequest
	ACLRequests         []blih.SetACLRequest
	UploadedKeys        []string
}

// NewBlihClientStub constructs a stub holding the named repositories with no ACLs.
func NewBlihClientStub(repositoryNames ...string) *BlihClientStub {
	stub := &BlihClientStub{
		Repositories:   map[string]blih.RepositoryInfo{},
		RepositoryACLs: map[string]blih.ACLs{},
	}
	for _, repositoryName := range repositoryNames {
		stub.Repositories[repositoryName] = blih.RepositoryInfo{Name: repositoryName, UUID: repositoryName + "-uuid", Public: "False"}
	}
	return stub
}

// ListRepositories returns the stored repository names, sorted.
func (stub *BlihClientStub) ListRepositories(_ context.Context, credentials blih.Credentials) ([]string, error) {
	if callError := stub.record(blih.OperationListRepositories, credentials); callError != nil {
		return nil, callError
	}
	names := make([]string, 0, len(stub.Repositories))
	for repositoryName := range stub.Repositories {
		names = append(names, repositoryName)
	}
	sort.Strings(names)
	return names, nil
}

// CreateRepository stores a new repository.
func (stub *BlihClientStub) CreateRepository(_ context.Context, credentials blih.Credentials, request blih.CreateRepositoryRequest) (string, error) {
	if callError := stub.record(blih.OperationCreateRepository, credentials); callError != nil {
		return "", callError
	}
	stub.CreateRequests = append(stub.CreateRequests, request)
	if _, exists := stub.Repositories[request.Name]; exists {
		return "", blih.APIError{Operation: blih.OperationCreateRepository, StatusCode: http.StatusConflict, Message: repositoryExistsMessageConstant}
	}
	stub.ensureMaps()
	stub.Repositories[request.Name] = blih.RepositoryInfo{Name: request.Name, Description: request.Description, Public: "False"}
	return fmt.Sprintf(repositoryCreatedTemplateConstant, request.Name), nil
}

// RepositoryInfo returns the stored repository or a 404 APIError.
func (stub *BlihClientStub) RepositoryInfo(_ context.Context, credentials blih.Credentials, repositoryName string) (blih.RepositoryInfo, error) {
	if callError := stub.record(blih.OperationRepositoryInfo, credentials); callError != nil {
		return blih.RepositoryInfo{}, callError
	}
	info, exists := stub.Repositories[repositoryName]
	if !exists {
		return blih.RepositoryInfo{}, notFound(blih.OperationRepositoryInfo, repositoryNotFoundMessageConstant)
	}
	return info, nil
}

// DeleteRepository removes the stored repository and its ACLs.
func (stub *BlihClientStub) DeleteRepository(_ context.Context, credentials blih.Credentials, repositoryName string) (string, error) {
	if callError := stub.record(blih.OperationDeleteRepository, credentials); callError != nil {
		return "", callError
	}
	if _, exists := stub.Repositories[repositoryName]; !exists {
		return "", notFound(blih.OperationDeleteRepository, repositoryNotFoundMessageConstant)
	}
	delete(stub.Repositories, repositoryName)
	delete(stub.RepositoryACLs, repositoryName)
	return fmt.Sprintf(repositoryDeletedTemplateConstant, repositoryName), nil
}

// GetACLs returns the stored ACLs; an empty set answers 404 "No ACLs" like the server.
func (stub *BlihClientStub) GetACLs(_ context.Context, credentials blih.Credentials, repositoryName string) (blih.ACLs, error) {
	if callError := stub.record(blih.OperationGetACLs, credentials); callError != nil {
		return nil, callError
	}
	if _, exists := stub.Repositories[repositoryName]; !exists {
		return nil, notFound(blih.OperationGetACLs, repositoryNotFoundMessageConstant)
	}
	acls := stub.RepositoryACLs[repositoryName]
	if len(acls) == 0 {
		return nil, notFound(blih.OperationGetACLs, noACLsMessageConstant)
	}
	copied := make(blih.ACLs, len(acls))
	for userName, rights := range acls {
		copied[userName] = rights
	}
	return copied, nil
}

// GetACLsOrEmpty maps the "No ACLs" answer to an empty set.
func (stub *BlihClientStub) GetACLsOrEmpty(executionContext context.Context, credentials blih.Credentials, repositoryName string) (blih.ACLs, error) {
	acls, aclsError := stub.GetACLs(executionContext, credentials, repositoryName)
	if errors.Is(aclsError, blih.ErrNoACLs) {
		return blih.ACLs{}, nil
	}
	return acls, aclsError
}

// SetACL stores the rights; an empty ACL revokes the user.
func (stub *BlihClientStub) SetACL(_ context.Context, credentials blih.Credentials, request blih.SetACLRequest) (string, error) {
	if callError := stub.record(blih.OperationSetACL, credentials); callError != nil {
		return "", callError
	}
	stub.ACLRequests = append(stub.ACLRequests, request)
	if _, exists := stub.Repositories[request.Repository]; !exists {
		return "", notFound(blih.OperationSetACL, repositoryNotFoundMessageConstant)
	}
	normalizedACL, aclError := blih.NormalizeACL(request.ACL)
	if aclError != nil {
		return "", aclError
	}
	stub.ensureMaps()
	acls := stub.RepositoryACLs[request.Repository]
	if acls == nil {
		acls = blih.ACLs{}
		stub.RepositoryACLs[request.Repository] = acls
	}
	if len(normalizedACL) == 0 {
		delete(acls, request.User)
	} else {
		acls[request.User] = normalizedACL
	}
	return aclUpdatedMessageConstant, nil
}

// WhoAmI returns WhoAmIMessage, defaulting to the credentials user.
func (stub *BlihClientStub) WhoAmI(_ context.Context, credentials blih.Credentials) (string, error) {
	if callError := stub.record(blih.OperationWhoAmI, credentials); callError != nil {
		return "", callError
	}
	if len(stub.WhoAmIMessage) > 0 {
		return stub.WhoAmIMessage, nil
	}
	return credentials.User, nil
}

// ListSSHKeys returns the stored keys.
func (stub *BlihClientStub) ListSSHKeys(_ context.Context, credentials blih.Credentials) ([]blih.SSHKey, error) {
	if callError := stub.record(blih.OperationListSSHKeys, credentials); callError != nil {
		return nil, callError
	}
	return append([]blih.SSHKey{}, stub.SSHKeys...), nil
}

// UploadSSHKey records the key text as received.
func (stub *BlihClientStub) UploadSSHKey(_ context.Context, credentials blih.Credentials, keyText string) (string, error) {
	if callError := stub.record(blih.OperationUploadSSHKey, credentials); callError != nil {
		return "", callError
	}
	stub.UploadedKeys = append(stub.UploadedKeys, keyText)
	return sshKeyUploadedMessageConstant, nil
}

// RemoveSSHKey removes the named key.
func (stub *BlihClientStub) RemoveSSHKey(_ context.Context, credentials blih.Credentials, keyName string) (string, error) {
	if callError := stub.record(blih.OperationRemoveSSHKey, credentials); callError != nil {
		return "", callError
	}
	for keyIndex, sshKey := range stub.SSHKeys {
		if sshKey.Name == keyName {
			stub.SSHKeys = append(stub.SSHKeys[:keyIndex], stub.SSHKeys[keyIndex+1:]...)
			return fmt.Sprintf(sshKeyRemovedTemplateConstant, keyName), nil
		}
	}
	return "", notFound(blih.OperationRemoveSSHKey, sshKeyNotFoundMessageConstant)
}

func (stub *BlihClientStub) record(operation blih.OperationName, credentials blih.Credentials) error {
	stub.Operations = append(stub.Operations, operation)
	stub.ReceivedCredentials = append(stub.ReceivedCredentials, credentials)
	if stub.Errors != nil {
		if configuredError, exists := stub.Errors[operation]; exists {
			return configuredError
		}
	}
	return nil
}

func (stub *BlihClientStub) ensureMaps() {
	if stub.Repositories == nil {
		stub.Repositories = map[string]blih.RepositoryInfo{}
	}
	if stub.RepositoryACLs == nil {
		stub.RepositoryACLs = map[string]blih.ACLs{}
	}
}

func notFound(operation blih.OperationName, message string) error {
	return blih.APIError{Operation: operation, StatusCode: http.StatusNotFound, Message: message}
}

// ShellExecutorStub records git and ssh invocations and replays configured outcomes.
type ShellExecutorStub struct {
	GitResult   execshell.ExecutionResult
	GitError    error
	SSHResult   execshell.ExecutionResult
	SSHError    error
	GitCommands []execshell.CommandDetails
	SSHCommands []execshell.CommandDetails
}

// ExecuteGit records details and returns the configured git outcome.
func (executor *ShellExecutorStub) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.GitCommands = append(executor.GitCommands, details)
	return executor.GitResult, executor.GitError
}

// ExecuteSSH records details and returns the configured ssh outcome.
func (executor *ShellExecutorStub) ExecuteSSH(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.SSHCommands = append(executor.SSHCommands, details)
	return executor.SSHResult, executor.SSHError
}
