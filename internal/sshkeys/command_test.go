package sshkeys_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/dependencies"
	"github.com/temirov/blihbetter/internal/dependencies/testsupport"
	"github.com/temirov/blihbetter/internal/sshkeys"
	pathutils "github.com/temirov/blihbetter/internal/utils/path"
)

const testKeyConstant = "ssh-ed25519 AAAAC3Nza bob@laptop"

func execute(testInstance *testing.T, builder *sshkeys.CommandBuilder, arguments ...string) (string, error) {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	rootCommand := &cobra.Command{Use: "blihbetter", SilenceUsage: true, SilenceErrors: true}
	rootCommand.AddCommand(command)

	var output bytes.Buffer
	rootCommand.SetOut(&output)
	rootCommand.SetErr(&output)
	rootCommand.SetArgs(arguments)
	executionError := rootCommand.ExecuteContext(context.Background())
	return output.String(), executionError
}

func newBuilder(client *testsupport.BlihClientStub) *sshkeys.CommandBuilder {
	return &sshkeys.CommandBuilder{Providers: dependencies.Providers{
		Credentials: testsupport.CredentialsLoaderStub{Credentials: blih.Credentials{User: "bob", Token: "abc123"}},
		Client:      client,
	}}
}

func TestListCommand(testInstance *testing.T) {
	for _, alias := range []string{"list", "ls"} {
		testInstance.Run(alias, func(subTest *testing.T) {
			client := testsupport.NewBlihClientStub()
			client.SSHKeys = []blih.SSHKey{{Name: "bob@laptop", Key: testKeyConstant}}

			output, executionError := execute(subTest, newBuilder(client), "sshkey", alias)
			require.NoError(subTest, executionError)
			require.Equal(subTest, "\nbob@laptop\n"+testKeyConstant+"\n\n", output)
		})
	}
}

func TestUploadCommandReadsKeyFile(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	keyPath := filepath.Join(homeDirectory, ".ssh", "id_ed25519.pub")
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(keyPath), 0o700))
	require.NoError(testInstance, os.WriteFile(keyPath, []byte(testKeyConstant+"\n"), 0o600))

	for _, alias := range []string{"upload", "add"} {
		testInstance.Run(alias, func(subTest *testing.T) {
			client := testsupport.NewBlihClientStub()
			builder := newBuilder(client)
			builder.HomeExpander = pathutils.NewHomeExpanderWithProvider(func() (string, error) { return homeDirectory, nil })

			output, executionError := execute(subTest, builder, "sshkey", alias, "~/.ssh/id_ed25519.pub")
			require.NoError(subTest, executionError)
			require.Equal(subTest, []string{testKeyConstant + "\n"}, client.UploadedKeys)
			require.Contains(subTest, output, " INFO  Public key successfully uploaded")
		})
	}
}

func TestUploadCommandReportsUnreadableFile(testInstance *testing.T) {
	client := testsupport.NewBlihClientStub()
	builder := newBuilder(client)
	builder.ReadFile = func(string) ([]byte, error) { return nil, os.ErrNotExist }

	_, executionError := execute(testInstance, builder, "sshkey", "upload", "missing.pub")
	require.ErrorIs(testInstance, executionError, os.ErrNotExist)
	require.Contains(testInstance, executionError.Error(), "Can't open file : missing.pub")
	require.Empty(testInstance, client.Operations)
}

func TestRemoveCommand(testInstance *testing.T) {
	for _, alias := range []string{"rm", "remove", "delete"} {
		testInstance.Run(alias, func(subTest *testing.T) {
			client := testsupport.NewBlihClientStub()
			client.SSHKeys = []blih.SSHKey{{Name: "bob@laptop", Key: testKeyConstant}}

			output, executionError := execute(subTest, newBuilder(client), "sshkey", alias, "bob@laptop")
			require.NoError(subTest, executionError)
			require.Empty(subTest, client.SSHKeys)
			require.Contains(subTest, output, "Public key 'bob@laptop' removed")
		})
	}

	client := testsupport.NewBlihClientStub()
	_, missingError := execute(testInstance, newBuilder(client), "sshkey", "rm", "ghost")
	var apiError blih.APIError
	require.ErrorAs(testInstance, missingError, &apiError)
	require.Equal(testInstance, http.StatusNotFound, apiError.StatusCode)
}
