package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/blihbetter/internal/utils"
)

func TestCommandContextAccessor(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, configurationAvailable := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, configurationAvailable)

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/tmp/config.yaml")
	executionContext = accessor.WithCredentialsFilePath(executionContext, "/tmp/credentials.json")

	configurationFilePath, configurationAvailable := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, configurationAvailable)
	require.Equal(testInstance, "/tmp/config.yaml", configurationFilePath)

	credentialsFilePath, credentialsAvailable := accessor.CredentialsFilePath(executionContext)
	require.True(testInstance, credentialsAvailable)
	require.Equal(testInstance, "/tmp/credentials.json", credentialsFilePath)

	_, emptyAvailable := accessor.CredentialsFilePath(accessor.WithCredentialsFilePath(context.Background(), ""))
	require.False(testInstance, emptyAvailable)
}
