package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/blihbetter/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/student"

func TestHomeExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) { return testHomeDirectoryConstant, nil })

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare_tilde", input: "~", expected: testHomeDirectoryConstant},
		{name: "tilde_slash", input: "~/.config/epitech/config.json", expected: filepath.Join(testHomeDirectoryConstant, ".config/epitech/config.json")},
		{name: "absolute", input: "/etc/config.json", expected: "/etc/config.json"},
		{name: "other_user", input: "~other/config.json", expected: "~other/config.json"},
		{name: "empty", input: "", expected: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, expander.Expand(testCase.input))
		})
	}
}

func TestHomeExpanderWithoutHome(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) { return "", errors.New("no home") })
	require.Equal(testInstance, "~/config.json", expander.Expand("~/config.json"))

	_, joinError := expander.JoinHome(".config")
	require.Error(testInstance, joinError)
}

func TestHomeExpanderJoinHome(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) { return testHomeDirectoryConstant, nil })
	joinedPath, joinError := expander.JoinHome(".config", "epitech", "config.json")
	require.NoError(testInstance, joinError)
	require.Equal(testInstance, filepath.Join(testHomeDirectoryConstant, ".config", "epitech", "config.json"), joinedPath)
}
