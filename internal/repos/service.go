package repos

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/dependencies"
	"github.com/temirov/blihbetter/internal/execshell"
	"github.com/temirov/blihbetter/internal/ui"
)

const (
	gitCloneSubcommandConstant        = "clone"
	cloningFromTemplateConstant       = "Cloning from '%s'\n"
	executorNotConfiguredMessage      = "git executor not configured"
	requiredValueMessageConstant      = "value required"
	logMessageRepositoryCreated       = "repository created"
	logMessageRepositoryDeleted       = "repository deleted"
	logMessageGradingGranted          = "grading access granted"
	logFieldRepositoryConstant        = "repository"
	logFieldUserConstant              = "user"
	logFieldACLConstant               = "acl"
	deletionCancelledTemplateConstant = "Repository '%s' kept"
)

// ErrExecutorNotConfigured indicates a clone was requested from a service built without a git executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)

// Service runs repository operations for one account and reports through a presenter.
type Service struct {
	client      dependencies.BlihClient
	executor    dependencies.ShellExecutor
	credentials blih.Credentials
	presenter   *ui.Presenter
	logger      *zap.Logger
}

// NewService constructs a repository service. executor may be nil when no command clones.
func NewService(session dependencies.Session, executor dependencies.ShellExecutor, presenter *ui.Presenter) *Service {
	logger := session.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:      session.Client,
		executor:    executor,
		credentials: session.Credentials,
		presenter:   presenter,
		logger:      logger,
	}
}

// List prints every repository name, one per line.
func (service *Service) List(executionContext context.Context) error {
	repositoryNames, listError := service.client.ListRepositories(executionContext, service.credentials)
	if listError != nil {
		return listError
	}
	service.presenter.Lines(repositoryNames)
	return nil
}

// Create creates a repository and prints the server message.
func (service *Service) Create(executionContext context.Context, request blih.CreateRepositoryRequest) error {
	message, createError := service.client.CreateRepository(executionContext, service.credentials, request)
	if createError != nil {
		return createError
	}
	service.logger.Debug(logMessageRepositoryCreated, zap.String(logFieldRepositoryConstant, request.Name))
	service.presenter.Info(message)
	return nil
}

// New creates a repository, grants the grading user access and optionally clones it.
func (service *Service) New(executionContext context.Context, request blih.CreateRepositoryRequest, configuration NewConfiguration, cloneOptions CloneOptions) error {
	if createError := service.Create(executionContext, request); createError != nil {
		return createError
	}

	if len(configuration.GradingUser) > 0 {
		message, aclError := service.client.SetACL(executionContext, service.credentials, blih.SetACLRequest{
			Repository: request.Name,
			User:       configuration.GradingUser,
			ACL:        configuration.GradingACL,
		})
		if aclError != nil {
			return aclError
		}
		service.logger.Debug(logMessageGradingGranted,
			zap.String(logFieldRepositoryConstant, request.Name),
			zap.String(logFieldUserConstant, configuration.GradingUser),
			zap.String(logFieldACLConstant, configuration.GradingACL))
		service.presenter.Info(message)
	}

	if !configuration.Clone {
		return nil
	}
	return service.Clone(executionContext, request.Name, cloneOptions)
}

// CloneOptions wires the git process to the terminal.
type CloneOptions struct {
	Input  io.Reader
	Output io.Writer
}

// Clone runs `git clone <git_url>:<user>/<name>` in the current directory.
func (service *Service) Clone(executionContext context.Context, repositoryName string, options CloneOptions) error {
	if service.executor == nil {
		return ErrExecutorNotConfigured
	}

	remote, remoteError := repositoryRemote(service.credentials, repositoryName)
	if remoteError != nil {
		return remoteError
	}

	fmt.Fprintf(service.presenter.Writer(), cloningFromTemplateConstant, service.credentials.RemoteNamespace())
	_, cloneError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:     []string{gitCloneSubcommandConstant, remote},
		StandardInput: options.Input,
		OutputWriter:  options.Output,
	})
	return cloneError
}

// Delete removes a repository after confirm approves it. A nil confirm deletes without asking.
func (service *Service) Delete(executionContext context.Context, repositoryName string, confirm func() (bool, error)) error {
	if confirm != nil {
		confirmed, confirmError := confirm()
		if confirmError != nil {
			return confirmError
		}
		if !confirmed {
			service.presenter.Info(fmt.Sprintf(deletionCancelledTemplateConstant, repositoryName))
			return nil
		}
	}

	message, deleteError := service.client.DeleteRepository(executionContext, service.credentials, repositoryName)
	if deleteError != nil {
		return deleteError
	}
	service.logger.Debug(logMessageRepositoryDeleted, zap.String(logFieldRepositoryConstant, repositoryName))
	service.presenter.Info(message)
	return nil
}

// Info prints repository details followed by its ACL table. Repositories without ACLs show an empty table.
func (service *Service) Info(executionContext context.Context, repositoryName string) error {
	repositoryInfo, infoError := service.client.RepositoryInfo(executionContext, service.credentials, repositoryName)
	if infoError != nil {
		return infoError
	}
	if len(repositoryInfo.Name) == 0 {
		repositoryInfo.Name = repositoryName
	}

	acls, aclsError := service.client.GetACLsOrEmpty(executionContext, service.credentials, repositoryName)
	if aclsError != nil {
		return aclsError
	}

	service.presenter.Logo()
	service.presenter.RepositoryInfo(repositoryInfo)
	service.presenter.ACLTable(acls)
	return nil
}

func repositoryRemote(credentials blih.Credentials, repositoryName string) (string, error) {
	if len(repositoryName) == 0 {
		return "", blih.InvalidInputError{FieldName: logFieldRepositoryConstant, Message: requiredValueMessageConstant}
	}
	return credentials.RepositoryRemote(repositoryName), nil
}
