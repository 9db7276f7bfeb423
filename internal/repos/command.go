package repos

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/dependencies"
	"github.com/temirov/blihbetter/internal/execshell"
	"github.com/temirov/blihbetter/internal/ui"
	"github.com/temirov/blihbetter/internal/utils"
	flagutils "github.com/temirov/blihbetter/internal/utils/flags"
)

const (
	listUseConstant          = "ls"
	listAliasConstant        = "list"
	listShortDescription     = "List every repository of the user"
	createUseConstant        = "create <name>"
	createShortDescription   = "Create a new repository"
	newUseConstant           = "new <name>"
	newShortDescription      = "Create a repository with the default school configuration"
	newLongDescription       = "new creates the repository, grants the grading user its configured rights and clones it into the current directory."
	cloneUseConstant         = "clone <name>"
	cloneShortDescription    = "Clone a repository of the user"
	removeUseConstant        = "rm <name>"
	removeDeleteAlias        = "delete"
	removeRemoveAlias        = "remove"
	removeShortDescription   = "Remove a repository"
	infoUseConstant          = "info <name>"
	infoShortDescription     = "Display repository information and ACLs"
	descriptionFlagName      = "description"
	descriptionFlagUsage     = "Repository description"
	cloneFlagName            = "clone"
	cloneFlagUsage           = "Clone the repository after creating it"
	deletePromptTemplate     = "Delete repository '%s'?"
	repositoryArgumentsCount = 1
)

// CommandBuilder assembles the repository commands.
type CommandBuilder struct {
	dependencies.Providers
	Executor              dependencies.ShellExecutor
	CommandEventsObserver execshell.CommandEventObserver
	Prompter              ui.Prompter
	ConfigurationProvider func() ToolsConfiguration
}

// Build constructs ls, create, new, clone, rm and info.
func (builder *CommandBuilder) Build() ([]*cobra.Command, error) {
	listCommand := &cobra.Command{
		Use:     listUseConstant,
		Aliases: []string{listAliasConstant},
		Short:   listShortDescription,
		Args:    cobra.NoArgs,
		RunE:    builder.runList,
	}

	createCommand := &cobra.Command{
		Use:   createUseConstant,
		Short: createShortDescription,
		Args:  cobra.ExactArgs(repositoryArgumentsCount),
		RunE:  builder.runCreate,
	}
	createCommand.Flags().String(descriptionFlagName, "", descriptionFlagUsage)

	newCommand := &cobra.Command{
		Use:   newUseConstant,
		Short: newShortDescription,
		Long:  newLongDescription,
		Args:  cobra.ExactArgs(repositoryArgumentsCount),
		RunE:  builder.runNew,
	}
	newCommand.Flags().String(descriptionFlagName, "", descriptionFlagUsage)
	flagutils.AddToggleFlag(newCommand.Flags(), nil, cloneFlagName, "", DefaultToolsConfiguration().New.Clone, cloneFlagUsage)

	cloneCommand := &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescription,
		Args:  cobra.ExactArgs(repositoryArgumentsCount),
		RunE:  builder.runClone,
	}

	removeCommand := &cobra.Command{
		Use:     removeUseConstant,
		Aliases: []string{removeDeleteAlias, removeRemoveAlias},
		Short:   removeShortDescription,
		Args:    cobra.ExactArgs(repositoryArgumentsCount),
		RunE:    builder.runRemove,
	}
	flagutils.AddToggleFlag(removeCommand.Flags(), nil, flagutils.AssumeYesFlagName, flagutils.AssumeYesFlagShorthand, false, flagutils.AssumeYesFlagUsage)

	infoCommand := &cobra.Command{
		Use:   infoUseConstant,
		Short: infoShortDescription,
		Args:  cobra.ExactArgs(repositoryArgumentsCount),
		RunE:  builder.runInfo,
	}

	return []*cobra.Command{listCommand, createCommand, newCommand, cloneCommand, removeCommand, infoCommand}, nil
}

func (builder *CommandBuilder) runList(command *cobra.Command, _ []string) error {
	service, serviceError := builder.resolveService(command, false)
	if serviceError != nil {
		return serviceError
	}
	return service.List(command.Context())
}

func (builder *CommandBuilder) runCreate(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.resolveService(command, false)
	if serviceError != nil {
		return serviceError
	}
	description, _ := command.Flags().GetString(descriptionFlagName)
	return service.Create(command.Context(), blih.CreateRepositoryRequest{Name: arguments[0], Description: description})
}

func (builder *CommandBuilder) runNew(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration().New
	if command.Flags().Changed(cloneFlagName) {
		configuration.Clone, _ = command.Flags().GetBool(cloneFlagName)
	}

	service, serviceError := builder.resolveService(command, configuration.Clone)
	if serviceError != nil {
		return serviceError
	}
	description, _ := command.Flags().GetString(descriptionFlagName)
	return service.New(command.Context(), blih.CreateRepositoryRequest{Name: arguments[0], Description: description}, configuration, builder.cloneOptions(command))
}

func (builder *CommandBuilder) runClone(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.resolveService(command, true)
	if serviceError != nil {
		return serviceError
	}
	return service.Clone(command.Context(), arguments[0], builder.cloneOptions(command))
}

func (builder *CommandBuilder) runRemove(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.resolveService(command, false)
	if serviceError != nil {
		return serviceError
	}

	repositoryName := arguments[0]
	assumeYes, _ := command.Flags().GetBool(flagutils.AssumeYesFlagName)
	var confirm func() (bool, error)
	if !assumeYes && (builder.Prompter != nil || ui.IsInteractiveInput(command.InOrStdin())) {
		prompter := ui.ResolvePrompter(builder.Prompter, command.InOrStdin(), command.OutOrStdout())
		confirm = func() (bool, error) {
			return prompter.Confirm(fmt.Sprintf(deletePromptTemplate, repositoryName))
		}
	}
	return service.Delete(command.Context(), repositoryName, confirm)
}

func (builder *CommandBuilder) runInfo(command *cobra.Command, arguments []string) error {
	service, serviceError := builder.resolveService(command, false)
	if serviceError != nil {
		return serviceError
	}
	return service.Info(command.Context(), arguments[0])
}

func (builder *CommandBuilder) resolveService(command *cobra.Command, needsExecutor bool) (*Service, error) {
	session, sessionError := builder.Resolve(command.Context())
	if sessionError != nil {
		return nil, sessionError
	}

	var executor dependencies.ShellExecutor
	if needsExecutor {
		resolvedExecutor, executorError := dependencies.ResolveShellExecutor(builder.Executor, session.Logger, builder.CommandEventsObserver)
		if executorError != nil {
			return nil, executorError
		}
		executor = resolvedExecutor
	}

	return NewService(session, executor, ui.NewPresenter(command.OutOrStdout())), nil
}

func (builder *CommandBuilder) cloneOptions(command *cobra.Command) CloneOptions {
	return CloneOptions{
		Input:  command.InOrStdin(),
		Output: utils.NewFlushingWriter(command.ErrOrStderr()),
	}
}

func (builder *CommandBuilder) resolveConfiguration() ToolsConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultToolsConfiguration()
	}
	provided := builder.ConfigurationProvider()
	provided.New = provided.New.sanitize()
	return provided
}
