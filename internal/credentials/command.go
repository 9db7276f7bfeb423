package credentials

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/blihbetter/internal/ui"
	pathutils "github.com/temirov/blihbetter/internal/utils/path"
)

const (
	configCommandUseConstant        = "config [path]"
	configCommandShortConstant      = "Create the BLIH credentials file"
	configCommandLongConstant       = "config asks for the BLIH user, password, git url, blih url and user agent, then writes them to the credentials file. The file is ~/.config/epitech/config.json unless a path is given."
	infoCommandUseConstant          = "info"
	infoCommandShortConstant        = "Display the current configuration"
	setupExitedMessageConstant      = "Exited"
	setupCompletedTemplateConstant  = "Config file written to '%s'"
	credentialsSavedLogConstant     = "credentials saved"
	credentialsPathLogFieldConstant = "path"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the config command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	Prompter       ui.Prompter
	HomeExpander   *pathutils.HomeExpander
}

// Build constructs the config command and its info subcommand.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   configCommandUseConstant,
		Short: configCommandShortConstant,
		Long:  configCommandLongConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runSetup,
	}

	infoCommand := &cobra.Command{
		Use:   infoCommandUseConstant,
		Short: infoCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runInfo,
	}
	command.AddCommand(infoCommand)

	return command, nil
}

// Setup runs the interactive setup against store, reporting the outcome on the command output.
// An aborted prompt is reported as a notice rather than an error.
func (builder *CommandBuilder) Setup(command *cobra.Command, store *Store) error {
	presenter := ui.NewPresenter(command.OutOrStdout())
	prompter := ui.ResolvePrompter(builder.Prompter, command.InOrStdin(), command.OutOrStdout())

	_, setupError := NewSetupService(prompter).Run(store)
	if setupError != nil {
		if errors.Is(setupError, ui.ErrPromptAborted) {
			fmt.Fprintln(command.OutOrStdout())
			presenter.Info(setupExitedMessageConstant)
			return nil
		}
		return setupError
	}

	builder.resolveLogger().Debug(credentialsSavedLogConstant, zap.String(credentialsPathLogFieldConstant, store.Path()))
	presenter.Success(fmt.Sprintf(setupCompletedTemplateConstant, store.Path()))
	return nil
}

func (builder *CommandBuilder) runSetup(command *cobra.Command, arguments []string) error {
	credentialsPath, pathError := builder.resolvePath(command, arguments)
	if pathError != nil {
		return pathError
	}
	return builder.Setup(command, NewStore(credentialsPath))
}

func (builder *CommandBuilder) runInfo(command *cobra.Command, arguments []string) error {
	credentialsPath, pathError := ResolvePath(command.Context(), builder.HomeExpander)
	if pathError != nil {
		return pathError
	}

	credentials, loadError := NewStore(credentialsPath).Load()
	if loadError != nil {
		return loadError
	}

	ui.NewPresenter(command.OutOrStdout()).Configuration(ui.ConfigurationSummary{
		Path:            credentialsPath,
		User:            credentials.User,
		TokenRegistered: len(credentials.Token) > 0,
		GitURL:          credentials.GitURL,
		BlihURL:         credentials.BlihURL,
		UserAgent:       credentials.UserAgent,
	})
	return nil
}

func (builder *CommandBuilder) resolvePath(command *cobra.Command, arguments []string) (string, error) {
	if len(arguments) == 1 {
		expander := builder.HomeExpander
		if expander == nil {
			expander = pathutils.NewHomeExpander()
		}
		return expander.Expand(arguments[0]), nil
	}
	return ResolvePath(command.Context(), builder.HomeExpander)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
