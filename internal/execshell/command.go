package execshell

import (
	"context"
	"io"
)

// CommandName identifies an external executable.
type CommandName string

// Supported executables.
const (
	CommandGit CommandName = "git"
	CommandSSH CommandName = "ssh"
)

// CommandDetails describes the arguments and environment of a single invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        io.Reader
	// OutputWriter, when set, receives standard output and standard error while the process runs.
	OutputWriter io.Writer
	// AcceptedExitCodes lists non-zero exit codes the caller inspects itself.
	AcceptedExitCodes []int
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs a ShellCommand. A non-zero exit code is reported through ExecutionResult, not as an error.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	CommandExecutionFailed(command ShellCommand, failure error)
}

func (details CommandDetails) acceptsExitCode(exitCode int) bool {
	if exitCode == 0 {
		return true
	}
	for _, acceptedExitCode := range details.AcceptedExitCodes {
		if acceptedExitCode == exitCode {
			return true
		}
	}
	return false
}
