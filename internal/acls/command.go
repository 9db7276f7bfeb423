package acls

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/dependencies"
	"github.com/temirov/blihbetter/internal/ui"
)

const (
	groupUseConstant         = "acl"
	groupShortDescription    = "Read and edit repository ACLs"
	groupLongDescription     = "acl reads and edits the rights users hold on a repository. Rights combine the letters r (read), w (write) and a (admin); an empty value revokes every right."
	getUseConstant           = "get <repo>"
	getShortDescription      = "Get repository ACLs"
	setUseConstant           = "set <repo> <user> [acl]"
	setShortDescription      = "Set repository ACLs"
	legacyGetUseConstant     = "getacl <repo>"
	legacySetUseConstant     = "setacl <repo> <user> [acl]"
	getArgumentsCount        = 1
	setMinimumArgumentsCount = 2
	setMaximumArgumentsCount = 3
	logMessageACLUpdated     = "acl updated"
	logFieldRepository       = "repository"
	logFieldUser             = "user"
	logFieldACL              = "acl"
)

var groupAliases = []string{"acls", "ACL", "ACLs", "rights"}

// CommandBuilder assembles the ACL command group and its legacy shortcuts.
type CommandBuilder struct {
	dependencies.Providers
}

// Build returns the acl group followed by the getacl and setacl shortcuts.
func (builder *CommandBuilder) Build() ([]*cobra.Command, error) {
	groupCommand := &cobra.Command{
		Use:     groupUseConstant,
		Aliases: append([]string{}, groupAliases...),
		Short:   groupShortDescription,
		Long:    groupLongDescription,
	}
	groupCommand.AddCommand(builder.newGetCommand(getUseConstant), builder.newSetCommand(setUseConstant))

	return []*cobra.Command{
		groupCommand,
		builder.newGetCommand(legacyGetUseConstant),
		builder.newSetCommand(legacySetUseConstant),
	}, nil
}

func (builder *CommandBuilder) newGetCommand(use string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: getShortDescription,
		Args:  cobra.ExactArgs(getArgumentsCount),
		RunE:  builder.runGet,
	}
}

func (builder *CommandBuilder) newSetCommand(use string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: setShortDescription,
		Args:  cobra.RangeArgs(setMinimumArgumentsCount, setMaximumArgumentsCount),
		RunE:  builder.runSet,
	}
}

func (builder *CommandBuilder) runGet(command *cobra.Command, arguments []string) error {
	session, sessionError := builder.Resolve(command.Context())
	if sessionError != nil {
		return sessionError
	}

	acls, aclsError := session.Client.GetACLs(command.Context(), session.Credentials, arguments[0])
	if aclsError != nil {
		return aclsError
	}
	ui.NewPresenter(command.OutOrStdout()).ACLTable(acls)
	return nil
}

func (builder *CommandBuilder) runSet(command *cobra.Command, arguments []string) error {
	request := blih.SetACLRequest{Repository: arguments[0], User: arguments[1]}
	if len(arguments) == setMaximumArgumentsCount {
		request.ACL = arguments[2]
	}

	session, sessionError := builder.Resolve(command.Context())
	if sessionError != nil {
		return sessionError
	}

	message, setError := session.Client.SetACL(command.Context(), session.Credentials, request)
	if setError != nil {
		return setError
	}
	session.Logger.Debug(logMessageACLUpdated,
		zap.String(logFieldRepository, request.Repository),
		zap.String(logFieldUser, request.User),
		zap.String(logFieldACL, request.ACL))
	ui.NewPresenter(command.OutOrStdout()).Info(message)
	return nil
}
