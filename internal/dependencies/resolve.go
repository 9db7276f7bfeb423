package dependencies

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/credentials"
	"github.com/temirov/blihbetter/internal/execshell"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ClientConfigurationProvider supplies transport settings for the BLIH client.
type ClientConfigurationProvider func() blih.ClientConfiguration

// CredentialsLoader loads the account a command acts as.
type CredentialsLoader interface {
	Load() (blih.Credentials, error)
}

// BlihClient covers the BLIH operations commands issue. *blih.Client satisfies it.
type BlihClient interface {
	ListRepositories(executionContext context.Context, credentials blih.Credentials) ([]string, error)
	CreateRepository(executionContext context.Context, credentials blih.Credentials, request blih.CreateRepositoryRequest) (string, error)
	RepositoryInfo(executionContext context.Context, credentials blih.Credentials, repositoryName string) (blih.RepositoryInfo, error)
	DeleteRepository(executionContext context.Context, credentials blih.Credentials, repositoryName string) (string, error)
	GetACLs(executionContext context.Context, credentials blih.Credentials, repositoryName string) (blih.ACLs, error)
	GetACLsOrEmpty(executionContext context.Context, credentials blih.Credentials, repositoryName string) (blih.ACLs, error)
	SetACL(executionContext context.Context, credentials blih.Credentials, request blih.SetACLRequest) (string, error)
	WhoAmI(executionContext context.Context, credentials blih.Credentials) (string, error)
	ListSSHKeys(executionContext context.Context, credentials blih.Credentials) ([]blih.SSHKey, error)
	UploadSSHKey(executionContext context.Context, credentials blih.Credentials, keyText string) (string, error)
	RemoveSSHKey(executionContext context.Context, credentials blih.Credentials, keyName string) (string, error)
}

// ShellExecutor runs git and ssh. *execshell.ShellExecutor satisfies it.
type ShellExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteSSH(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ResolveLogger returns the provider's logger or a no-op logger.
func ResolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// ResolveCredentials loads credentials through the provided loader or from the credentials file selected by the command context.
func ResolveCredentials(executionContext context.Context, existing CredentialsLoader) (blih.Credentials, error) {
	if existing != nil {
		return existing.Load()
	}

	credentialsPath, pathError := credentials.ResolvePath(executionContext, nil)
	if pathError != nil {
		return blih.Credentials{}, pathError
	}
	return credentials.NewStore(credentialsPath).Load()
}

// ResolveBlihClient returns the provided client or constructs a resty-backed default.
func ResolveBlihClient(existing BlihClient, logger *zap.Logger, configurationProvider ClientConfigurationProvider) (BlihClient, error) {
	if existing != nil {
		return existing, nil
	}

	configuration := blih.ClientConfiguration{}
	if configurationProvider != nil {
		configuration = configurationProvider()
	}

	client, creationError := blih.NewClient(logger, configuration)
	if creationError != nil {
		return nil, creationError
	}
	return client, nil
}

// ResolveShellExecutor returns the provided executor or constructs an OS-backed default reporting to observer.
func ResolveShellExecutor(existing ShellExecutor, logger *zap.Logger, observer execshell.CommandEventObserver) (ShellExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
