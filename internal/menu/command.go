package menu

import (
	"github.com/spf13/cobra"

	"github.com/temirov/blihbetter/internal/dependencies"
	"github.com/temirov/blihbetter/internal/ui"
)

const (
	menuUseConstant      = "menu"
	menuAliasConstant    = "gui"
	menuShortDescription = "Browse and manage repositories interactively"
	menuLongDescription  = "menu walks through repositories, their ACLs and deletion with prompts. Press Ctrl+C on a prompt to go back."
)

// CommandBuilder assembles the menu command.
type CommandBuilder struct {
	dependencies.Providers
	Prompter ui.Prompter
}

// Build constructs the menu command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:     menuUseConstant,
		Aliases: []string{menuAliasConstant},
		Short:   menuShortDescription,
		Long:    menuLongDescription,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return builder.Run(command)
		},
	}, nil
}

// Run starts the menu on the command's streams. The root command reuses it when invoked without arguments on a terminal.
func (builder *CommandBuilder) Run(command *cobra.Command) error {
	session, sessionError := builder.Resolve(command.Context())
	if sessionError != nil {
		return sessionError
	}

	presenter := ui.NewPresenter(command.OutOrStdout())
	presenter.Logo()
	prompter := ui.ResolvePrompter(builder.Prompter, command.InOrStdin(), command.OutOrStdout())
	return NewRunner(session, prompter, presenter).Run(command.Context())
}
