package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	argumentsJoinSeparatorConstant          = " "
	unknownFailureMessageConstant           = "unknown error"
	currentDirectoryLabelConstant           = "current directory"
	argumentFlagPrefixConstant              = "-"

	gitCloneSubcommandConstant = "clone"

	gitCloneStartTemplateConstant            = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant          = "Cloned %s into %s"
	gitCloneFailureTemplateConstant          = "Failed to clone %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant = "Unable to clone %s: %s"

	sshStartTemplateConstant            = "Connecting to %s"
	sshSuccessTemplateConstant          = "Connected to %s (exit code %d)"
	sshFailureTemplateConstant          = "Connection to %s failed (exit code %d%s)"
	sshExecutionFailureTemplateConstant = "Unable to connect to %s: %s"
)

// CommandMessageFormatter builds human-readable descriptions of command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage describes a command that finished with an accepted exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildCompletionMessage describes a finished command, choosing success or failure wording from the exit code.
func (formatter CommandMessageFormatter) BuildCompletionMessage(command ShellCommand, result ExecutionResult) string {
	if command.Details.acceptsExitCode(result.ExitCode) {
		return formatter.buildMessage(command, result, nil, messageStageSuccess)
	}
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildFailureMessage describes a command that exited with an unaccepted code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage describes a command that could not run.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	positionalArguments := formatter.positionalArguments(command.Details.Arguments)

	switch {
	case command.Name == CommandGit && len(positionalArguments) >= 2 && positionalArguments[0] == gitCloneSubcommandConstant:
		return formatter.describeGitClone(command, positionalArguments, result, failure, stage)
	case command.Name == CommandSSH && len(positionalArguments) >= 1:
		return formatter.describeSSH(positionalArguments[len(positionalArguments)-1], command, result, failure, stage)
	default:
		return formatter.describeGeneric(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitClone(command ShellCommand, positionalArguments []string, result ExecutionResult, failure error, stage messageStage) string {
	remote := positionalArguments[1]
	destination := formatter.describeWorkingDirectory(command)
	if len(positionalArguments) >= 3 {
		destination = positionalArguments[2]
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCloneStartTemplateConstant, remote, destination)
	case messageStageSuccess:
		return fmt.Sprintf(gitCloneSuccessTemplateConstant, remote, destination)
	case messageStageFailure:
		return fmt.Sprintf(gitCloneFailureTemplateConstant, remote, result.ExitCode, formatter.standardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitCloneExecutionFailureTemplateConstant, remote, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeSSH(host string, command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(sshStartTemplateConstant, host)
	case messageStageSuccess:
		return fmt.Sprintf(sshSuccessTemplateConstant, host, result.ExitCode)
	case messageStageFailure:
		return fmt.Sprintf(sshFailureTemplateConstant, host, result.ExitCode, formatter.standardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(sshExecutionFailureTemplateConstant, host, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGeneric(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.commandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.standardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) commandLabel(command ShellCommand) string {
	commandLabel := strings.Join(append([]string{string(command.Name)}, command.Details.Arguments...), argumentsJoinSeparatorConstant)
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) positionalArguments(arguments []string) []string {
	positionalArguments := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		if strings.HasPrefix(argument, argumentFlagPrefixConstant) {
			continue
		}
		positionalArguments = append(positionalArguments, argument)
	}
	return positionalArguments
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return currentDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) standardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}
