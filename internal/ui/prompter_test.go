package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/blihbetter/internal/ui"
)

func TestIOPrompterConfirm(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "short_yes", input: "y\n", expected: true},
		{name: "long_yes_uppercase", input: "YES\n", expected: true},
		{name: "no", input: "n\n", expected: false},
		{name: "blank", input: "\n", expected: false},
		{name: "closed_input", input: "", expected: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			var output bytes.Buffer
			prompter := ui.NewIOPrompter(strings.NewReader(testCase.input), &output)

			confirmed, confirmError := prompter.Confirm("Delete 'project'?")
			require.NoError(subTest, confirmError)
			require.Equal(subTest, testCase.expected, confirmed)
			require.Equal(subTest, "Delete 'project'? [y/N]: ", output.String())
		})
	}
}

func TestIOPrompterInputFallsBackToPlaceholder(testInstance *testing.T) {
	var output bytes.Buffer
	prompter := ui.NewIOPrompter(strings.NewReader("\n  custom  \n"), &output)

	first, firstError := prompter.Input("Git URL", "git@git.example.test")
	require.NoError(testInstance, firstError)
	require.Equal(testInstance, "git@git.example.test", first)

	second, secondError := prompter.Input("Name", "")
	require.NoError(testInstance, secondError)
	require.Equal(testInstance, "custom", second)

	require.Equal(testInstance, "Git URL [git@git.example.test]: Name: ", output.String())

	_, closedError := prompter.Password("Password")
	require.ErrorIs(testInstance, closedError, ui.ErrPromptAborted)
}

func TestIOPrompterSelect(testInstance *testing.T) {
	options := []ui.SelectOption{
		{Label: "List repositories", Value: "list"},
		{Label: "Quit", Value: "quit"},
	}

	testCases := []struct {
		name          string
		input         string
		expected      string
		expectedError string
	}{
		{name: "by_number", input: "2\n", expected: "quit"},
		{name: "by_value", input: "LIST\n", expected: "list"},
		{name: "by_label", input: "quit\n", expected: "quit"},
		{name: "out_of_range", input: "3\n", expectedError: `invalid selection "3"`},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			var output bytes.Buffer
			prompter := ui.NewIOPrompter(strings.NewReader(testCase.input), &output)

			selected, selectError := prompter.Select("Action", options)
			if len(testCase.expectedError) > 0 {
				require.EqualError(subTest, selectError, testCase.expectedError)
				return
			}
			require.NoError(subTest, selectError)
			require.Equal(subTest, testCase.expected, selected)
			require.Contains(subTest, output.String(), "  1) List repositories\n")
			require.Contains(subTest, output.String(), "Action [1-2]: ")
		})
	}
}

func TestResolvePrompter(testInstance *testing.T) {
	existing := ui.NewIOPrompter(strings.NewReader(""), nil)
	require.Same(testInstance, existing, ui.ResolvePrompter(existing, strings.NewReader(""), nil))

	resolved := ui.ResolvePrompter(nil, strings.NewReader("y\n"), nil)
	_, isLinePrompter := resolved.(*ui.IOPrompter)
	require.True(testInstance, isLinePrompter)
	require.False(testInstance, ui.IsInteractiveInput(strings.NewReader("")))
}
