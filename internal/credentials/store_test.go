package credentials_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/credentials"
	"github.com/temirov/blihbetter/internal/utils"
	pathutils "github.com/temirov/blihbetter/internal/utils/path"
)

const (
	testUserConstant      = "bob"
	testPasswordConstant  = "hunter2"
	testGitURLConstant    = "git@git.example.test"
	testBlihURLConstant   = "https://blih.example.test/"
	testUserAgentConstant = "blih-test"
)

func validCredentials() blih.Credentials {
	return blih.Credentials{
		User:      testUserConstant,
		Token:     credentials.HashPassword(testPasswordConstant),
		GitURL:    testGitURLConstant,
		BlihURL:   testBlihURLConstant,
		UserAgent: testUserAgentConstant,
	}
}

func TestStoreSaveAndLoad(testInstance *testing.T) {
	credentialsPath := filepath.Join(testInstance.TempDir(), "nested", "epitech", "config.json")
	store := credentials.NewStore(credentialsPath)

	exists, existsError := store.Exists()
	require.NoError(testInstance, existsError)
	require.False(testInstance, exists)

	require.NoError(testInstance, store.Save(validCredentials()))

	fileInfo, statError := os.Stat(credentialsPath)
	require.NoError(testInstance, statError)
	require.Equal(testInstance, os.FileMode(0o600), fileInfo.Mode().Perm())

	directoryInfo, directoryStatError := os.Stat(filepath.Dir(credentialsPath))
	require.NoError(testInstance, directoryStatError)
	require.Equal(testInstance, os.FileMode(0o700), directoryInfo.Mode().Perm())

	loaded, loadError := store.Load()
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, validCredentials(), loaded)

	rawContent, readError := os.ReadFile(credentialsPath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(rawContent), `"blih_user_agent": "blih-test"`)
}

func TestStoreLoadRejectsInvalidFiles(testInstance *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "missing_file"},
		{name: "malformed_json", content: "{"},
		{name: "missing_user_agent", content: `{"user":"bob","token":"abc","git_url":"git@git.example.test","blih_url":"https://blih.example.test/"}`},
		{name: "empty_token", content: `{"user":"bob","token":"","git_url":"g","blih_url":"b","blih_user_agent":"a"}`},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			credentialsPath := filepath.Join(subTest.TempDir(), "config.json")
			if len(testCase.content) > 0 {
				require.NoError(subTest, os.WriteFile(credentialsPath, []byte(testCase.content), 0o600))
			}

			_, loadError := credentials.NewStore(credentialsPath).Load()
			require.Error(subTest, loadError)

			var invalidError credentials.InvalidCredentialsError
			require.ErrorAs(subTest, loadError, &invalidError)
			require.Equal(subTest, credentialsPath, invalidError.Path)
			require.Equal(subTest, "Invalid config file '"+credentialsPath+"'", loadError.Error())
		})
	}
}

func TestStoreLoadAcceptsExtraKeys(testInstance *testing.T) {
	credentialsPath := filepath.Join(testInstance.TempDir(), "config.json")
	content := `{"user":"bob","token":"abc","git_url":"git@git.example.test","blih_url":"https://blih.example.test/","blih_user_agent":"blih-1.7-win","theme":"dark"}`
	require.NoError(testInstance, os.WriteFile(credentialsPath, []byte(content), 0o600))

	loaded, loadError := credentials.NewStore(credentialsPath).Load()
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "blih-1.7-win", loaded.UserAgent)
	require.Equal(testInstance, "abc", loaded.Token)
}

func TestResolvePath(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) { return homeDirectory, nil })

	defaultPath, defaultError := credentials.ResolvePath(context.Background(), expander)
	require.NoError(testInstance, defaultError)
	require.Equal(testInstance, filepath.Join(homeDirectory, ".config", "epitech", "config.json"), defaultPath)

	contextWithPath := utils.NewCommandContextAccessor().WithCredentialsFilePath(context.Background(), "~/blih.json")
	overriddenPath, overrideError := credentials.ResolvePath(contextWithPath, expander)
	require.NoError(testInstance, overrideError)
	require.Equal(testInstance, filepath.Join(homeDirectory, "blih.json"), overriddenPath)
}

func TestHashPassword(testInstance *testing.T) {
	require.Equal(testInstance,
		"cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
		credentials.HashPassword(""))
	require.Len(testInstance, credentials.HashPassword(testPasswordConstant), 128)
}
