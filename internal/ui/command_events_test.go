package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/blihbetter/internal/execshell"
	"github.com/temirov/blihbetter/internal/ui"
)

const (
	testRemoteConstant                 = "git@git.example.test:bob/project"
	testWorkingDirectoryConstant       = "/workspace"
	testExecutionFailureReasonConstant = "executable file not found"
	testStandardErrorMessageConstant   = "fatal: repository not found"
)

func TestConsoleCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	cloneCommand := execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"clone", testRemoteConstant},
			WorkingDirectory: testWorkingDirectoryConstant,
		},
	}
	sshCommand := execshell.ShellCommand{
		Name:    execshell.CommandSSH,
		Details: execshell.CommandDetails{Arguments: []string{"-T", "git@git.example.test"}, AcceptedExitCodes: []int{128}},
	}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name:            "clone_started",
			invoke:          func(logger *ui.ConsoleCommandEventLogger) { logger.CommandStarted(cloneCommand) },
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Cloning " + testRemoteConstant + " into " + testWorkingDirectoryConstant,
		},
		{
			name: "clone_completed",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(cloneCommand, execshell.ExecutionResult{})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Cloned " + testRemoteConstant + " into " + testWorkingDirectoryConstant,
		},
		{
			name: "clone_failed",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(cloneCommand, execshell.ExecutionResult{ExitCode: 128, StandardError: testStandardErrorMessageConstant})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: "Failed to clone " + testRemoteConstant + " (exit code 128: " + testStandardErrorMessageConstant + ")",
		},
		{
			name: "ssh_accepted_exit_code",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(sshCommand, execshell.ExecutionResult{ExitCode: 128})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Connected to git@git.example.test (exit code 128)",
		},
		{
			name: "ssh_execution_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandExecutionFailed(sshCommand, errors.New(testExecutionFailureReasonConstant))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: "Unable to connect to git@git.example.test: " + testExecutionFailureReasonConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}
