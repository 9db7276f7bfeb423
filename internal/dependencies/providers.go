package dependencies

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/blihbetter/internal/blih"
)

// Providers groups the collaborators every BLIH-backed command builder accepts.
type Providers struct {
	LoggerProvider              LoggerProvider
	ClientConfigurationProvider ClientConfigurationProvider
	Credentials                 CredentialsLoader
	Client                      BlihClient
}

// Session is the resolved state of one command execution.
type Session struct {
	Logger      *zap.Logger
	Credentials blih.Credentials
	Client      BlihClient
}

// Resolve loads credentials and builds the client for one command execution.
func (providers Providers) Resolve(executionContext context.Context) (Session, error) {
	logger := providers.ResolveLogger()

	resolvedCredentials, credentialsError := ResolveCredentials(executionContext, providers.Credentials)
	if credentialsError != nil {
		return Session{}, credentialsError
	}

	client, clientError := ResolveBlihClient(providers.Client, logger, providers.ClientConfigurationProvider)
	if clientError != nil {
		return Session{}, clientError
	}

	return Session{Logger: logger, Credentials: resolvedCredentials, Client: client}, nil
}

// ResolveLogger returns the configured logger or a no-op logger.
func (providers Providers) ResolveLogger() *zap.Logger {
	return ResolveLogger(providers.LoggerProvider)
}
