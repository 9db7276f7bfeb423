package ping

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/blihbetter/internal/dependencies"
	"github.com/temirov/blihbetter/internal/execshell"
	"github.com/temirov/blihbetter/internal/ui"
	flagutils "github.com/temirov/blihbetter/internal/utils/flags"
)

const (
	pingUseConstant            = "ping [blih|git]"
	pingShortDescription       = "Ask BLIH or the git host who you are"
	pingTargetDescription      = "Ping target"
	whoAmIUseConstant          = "whoami"
	whoAmIShortDescription     = "Greet the configured user"
	targetBlihConstant         = "blih"
	targetGitConstant          = "git"
	sshNoTTYFlagConstant       = "-T"
	gitGreetingExitCode        = 128
	maximumPingArguments       = 1
	connectedTemplateConstant  = "Successfuly connected to %s as %s"
	helloTemplateConstant      = "Hello %s"
	configInfoHintConstant     = "You can type 'blihbetter config info' to get more informations"
	gitConnectionFailedMessage = "unable to connect (check your ssh key)"
	gitConnectionCauseTemplate = "%w: %w"
)

// ErrGitConnectionFailed reports an ssh session that did not end with a git host greeting.
var ErrGitConnectionFailed = errors.New(gitConnectionFailedMessage)

var pingTargets = []string{targetBlihConstant, targetGitConstant}

// CommandBuilder assembles the ping and whoami commands.
type CommandBuilder struct {
	dependencies.Providers
	Executor              dependencies.ShellExecutor
	CommandEventsObserver execshell.CommandEventObserver
}

// Build returns ping followed by whoami.
func (builder *CommandBuilder) Build() ([]*cobra.Command, error) {
	pingCommand := &cobra.Command{
		Use:       pingUseConstant,
		Short:     pingShortDescription,
		Long:      flagutils.FormatChoiceUsage(targetBlihConstant, pingTargets, pingTargetDescription),
		Args:      cobra.MaximumNArgs(maximumPingArguments),
		ValidArgs: append([]string{}, pingTargets...),
		RunE:      builder.runPing,
	}

	whoAmICommand := &cobra.Command{
		Use:   whoAmIUseConstant,
		Short: whoAmIShortDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runWhoAmI,
	}

	return []*cobra.Command{pingCommand, whoAmICommand}, nil
}

func (builder *CommandBuilder) runPing(command *cobra.Command, arguments []string) error {
	requestedTarget := ""
	if len(arguments) > 0 {
		requestedTarget = arguments[0]
	}
	target, targetError := flagutils.ResolveChoice(requestedTarget, targetBlihConstant, pingTargets)
	if targetError != nil {
		return targetError
	}

	if target == targetGitConstant {
		return builder.pingGit(command)
	}
	return builder.pingBlih(command)
}

func (builder *CommandBuilder) pingBlih(command *cobra.Command) error {
	session, sessionError := builder.Resolve(command.Context())
	if sessionError != nil {
		return sessionError
	}

	accountName, whoAmIError := session.Client.WhoAmI(command.Context(), session.Credentials)
	if whoAmIError != nil {
		return whoAmIError
	}

	presenter := ui.NewPresenter(command.OutOrStdout())
	presenter.Logo()
	presenter.Success(fmt.Sprintf(connectedTemplateConstant, presenter.Emphasis(session.Credentials.BlihURL), presenter.Emphasis(accountName)))
	return nil
}

func (builder *CommandBuilder) pingGit(command *cobra.Command) error {
	credentials, credentialsError := dependencies.ResolveCredentials(command.Context(), builder.Credentials)
	if credentialsError != nil {
		return credentialsError
	}

	logger := builder.ResolveLogger()
	executor, executorError := dependencies.ResolveShellExecutor(builder.Executor, logger, builder.CommandEventsObserver)
	if executorError != nil {
		return executorError
	}

	result, sshError := executor.ExecuteSSH(command.Context(), execshell.CommandDetails{
		Arguments:         []string{sshNoTTYFlagConstant, credentials.GitURL},
		AcceptedExitCodes: []int{gitGreetingExitCode},
	})
	if sshError != nil {
		return fmt.Errorf(gitConnectionCauseTemplate, ErrGitConnectionFailed, sshError)
	}

	accountName, greeted := ParseGitGreeting(result.StandardOutput)
	if !greeted {
		return ErrGitConnectionFailed
	}

	presenter := ui.NewPresenter(command.OutOrStdout())
	presenter.Success(fmt.Sprintf(connectedTemplateConstant, presenter.Emphasis(credentials.GitURL), presenter.Emphasis(accountName)))
	return nil
}

func (builder *CommandBuilder) runWhoAmI(command *cobra.Command, _ []string) error {
	credentials, credentialsError := dependencies.ResolveCredentials(command.Context(), builder.Credentials)
	if credentialsError != nil {
		return credentialsError
	}

	presenter := ui.NewPresenter(command.OutOrStdout())
	presenter.Logo()
	fmt.Fprintln(presenter.Writer())
	presenter.Heading(fmt.Sprintf(helloTemplateConstant, credentials.User))
	presenter.Hint(configInfoHintConstant)
	return nil
}
