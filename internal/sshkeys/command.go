package sshkeys

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/blihbetter/internal/dependencies"
	"github.com/temirov/blihbetter/internal/ui"
	pathutils "github.com/temirov/blihbetter/internal/utils/path"
)

const (
	groupUseConstant        = "sshkey"
	groupShortDescription   = "Manage the SSH keys of the account"
	listUseConstant         = "list"
	listAliasConstant       = "ls"
	listShortDescription    = "List SSH keys"
	uploadUseConstant       = "upload <file>"
	uploadAliasConstant     = "add"
	uploadShortDescription  = "Upload an SSH public key from a file"
	removeUseConstant       = "rm <key name>"
	removeRemoveAlias       = "remove"
	removeDeleteAlias       = "delete"
	removeShortDescription  = "Remove an SSH key"
	singleArgumentCount     = 1
	openKeyFileTemplate     = "Can't open file : %s: %w"
	logMessageKeyUploaded   = "ssh key uploaded"
	logMessageKeyRemoved    = "ssh key removed"
	logFieldFileConstant    = "file"
	logFieldKeyNameConstant = "key_name"
)

// CommandBuilder assembles the sshkey command group.
type CommandBuilder struct {
	dependencies.Providers
	HomeExpander *pathutils.HomeExpander
	ReadFile     func(path string) ([]byte, error)
}

// Build constructs the sshkey command hierarchy.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	groupCommand := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
	}

	listCommand := &cobra.Command{
		Use:     listUseConstant,
		Aliases: []string{listAliasConstant},
		Short:   listShortDescription,
		Args:    cobra.NoArgs,
		RunE:    builder.runList,
	}

	uploadCommand := &cobra.Command{
		Use:     uploadUseConstant,
		Aliases: []string{uploadAliasConstant},
		Short:   uploadShortDescription,
		Args:    cobra.ExactArgs(singleArgumentCount),
		RunE:    builder.runUpload,
	}

	removeCommand := &cobra.Command{
		Use:     removeUseConstant,
		Aliases: []string{removeRemoveAlias, removeDeleteAlias},
		Short:   removeShortDescription,
		Args:    cobra.ExactArgs(singleArgumentCount),
		RunE:    builder.runRemove,
	}

	groupCommand.AddCommand(listCommand, uploadCommand, removeCommand)
	return groupCommand, nil
}

func (builder *CommandBuilder) runList(command *cobra.Command, _ []string) error {
	session, sessionError := builder.Resolve(command.Context())
	if sessionError != nil {
		return sessionError
	}

	sshKeys, listError := session.Client.ListSSHKeys(command.Context(), session.Credentials)
	if listError != nil {
		return listError
	}
	ui.NewPresenter(command.OutOrStdout()).SSHKeys(sshKeys)
	return nil
}

func (builder *CommandBuilder) runUpload(command *cobra.Command, arguments []string) error {
	keyPath := builder.resolveHomeExpander().Expand(arguments[0])
	keyContent, readError := builder.resolveReadFile()(keyPath)
	if readError != nil {
		return fmt.Errorf(openKeyFileTemplate, arguments[0], readError)
	}

	session, sessionError := builder.Resolve(command.Context())
	if sessionError != nil {
		return sessionError
	}

	message, uploadError := session.Client.UploadSSHKey(command.Context(), session.Credentials, string(keyContent))
	if uploadError != nil {
		return uploadError
	}
	session.Logger.Debug(logMessageKeyUploaded, zap.String(logFieldFileConstant, keyPath))
	ui.NewPresenter(command.OutOrStdout()).Info(message)
	return nil
}

func (builder *CommandBuilder) runRemove(command *cobra.Command, arguments []string) error {
	session, sessionError := builder.Resolve(command.Context())
	if sessionError != nil {
		return sessionError
	}

	message, removeError := session.Client.RemoveSSHKey(command.Context(), session.Credentials, arguments[0])
	if removeError != nil {
		return removeError
	}
	session.Logger.Debug(logMessageKeyRemoved, zap.String(logFieldKeyNameConstant, arguments[0]))
	ui.NewPresenter(command.OutOrStdout()).Info(message)
	return nil
}

func (builder *CommandBuilder) resolveHomeExpander() *pathutils.HomeExpander {
	if builder.HomeExpander == nil {
		return pathutils.NewHomeExpander()
	}
	return builder.HomeExpander
}

func (builder *CommandBuilder) resolveReadFile() func(string) ([]byte, error) {
	if builder.ReadFile == nil {
		return os.ReadFile
	}
	return builder.ReadFile
}
