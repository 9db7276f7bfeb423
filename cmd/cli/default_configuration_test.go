package cli_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/blihbetter/cmd/cli"
	"github.com/temirov/blihbetter/internal/repos"
)

type embeddedConfigurationDocument struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"common"`
	Blih struct {
		CredentialsPath string `yaml:"credentials_path"`
		Timeout         string `yaml:"timeout"`
	} `yaml:"blih"`
	Tools struct {
		Repos struct {
			New struct {
				GradingUser string `yaml:"grading_user"`
				GradingACL  string `yaml:"grading_acl"`
				Clone       bool   `yaml:"clone"`
			} `yaml:"new"`
		} `yaml:"repos"`
	} `yaml:"tools"`
}

func TestEmbeddedDefaultConfigurationMatchesDefaults(testInstance *testing.T) {
	content, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)

	var document embeddedConfigurationDocument
	require.NoError(testInstance, yaml.Unmarshal(content, &document))

	require.Equal(testInstance, "error", document.Common.LogLevel)
	require.Equal(testInstance, "console", document.Common.LogFormat)
	require.Empty(testInstance, document.Blih.CredentialsPath)

	timeout, parseError := time.ParseDuration(document.Blih.Timeout)
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, 30*time.Second, timeout)

	defaults := repos.DefaultToolsConfiguration()
	require.Equal(testInstance, defaults.New.GradingUser, document.Tools.Repos.New.GradingUser)
	require.Equal(testInstance, defaults.New.GradingACL, document.Tools.Repos.New.GradingACL)
	require.Equal(testInstance, defaults.New.Clone, document.Tools.Repos.New.Clone)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	first, _ := cli.EmbeddedDefaultConfiguration()
	first[0] = '#'
	second, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, first[0], second[0])
}
