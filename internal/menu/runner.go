package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/dependencies"
	"github.com/temirov/blihbetter/internal/ui"
)

const (
	mainMenuTitleConstant          = "What do you want to do?"
	repositoryListTitleConstant    = "Choose a repository"
	repositoryNameTitleConstant    = "Repository name"
	repositoryDescriptionConstant  = "Description"
	repositoryActionTitleConstant  = "Action on %s"
	editACLUserTitleConstant       = "Whose rights do you want to edit?"
	addACLUserTitleConstant        = "User name"
	aclEditorTitleTemplateConstant = "Rights of %s on %s: %s"
	confirmDeleteTemplateConstant  = "You really want to delete \"%s\" ?"
	deletionCancelledConstant      = "Repository '%s' kept"
	noRepositoriesMessageConstant  = "You have no repository yet"
	noRightsLabelConstant          = "none"
	checkedMarkerConstant          = "[x] "
	uncheckedMarkerConstant        = "[ ] "
	transitionLogMessageConstant   = "menu transition"
	screenFromLogFieldConstant     = "from"
	screenToLogFieldConstant       = "to"
	repositoryLogFieldConstant     = "repository"
	mainNewRepositoryLabelConstant = "New repository"
	mainRepositoriesLabelConstant  = "My repositories"
	mainQuitLabelConstant          = "Quit"
	detailAddACLLabelConstant      = "Add ACL"
	detailEditACLLabelConstant     = "Edit ACL"
	detailDeleteLabelConstant      = "Delete repository"
	backLabelConstant              = "Back"
	aclSaveLabelConstant           = "Save"
	aclAddLabelConstant            = "Add"
	aclRemoveLabelConstant         = "Remove"
	aclCancelLabelConstant         = "Cancel"
	readLabelConstant              = "Read"
	writeLabelConstant             = "Write"
	adminLabelConstant             = "Admin"
	optionNewRepositoryConstant    = "new"
	optionRepositoriesConstant     = "repositories"
	optionQuitConstant             = "quit"
	optionBackConstant             = ":back"
	optionAddACLConstant           = "add-acl"
	optionEditACLConstant          = "edit-acl"
	optionDeleteConstant           = "delete"
	optionSaveConstant             = ":save"
	optionRemoveConstant           = ":remove"
	optionCancelConstant           = ":cancel"
)

const (
	readLetterConstant  rune = 'r'
	writeLetterConstant rune = 'w'
	adminLetterConstant rune = 'a'
)

var aclLetterLabels = []struct {
	letter rune
	label  string
}{
	{letter: readLetterConstant, label: readLabelConstant},
	{letter: writeLetterConstant, label: writeLabelConstant},
	{letter: adminLetterConstant, label: adminLabelConstant},
}

// Runner drives the menu until the user quits.
type Runner struct {
	session   dependencies.Session
	prompter  ui.Prompter
	presenter *ui.Presenter
	logger    *zap.Logger
}

// NewRunner constructs a Runner acting as the session's account.
func NewRunner(session dependencies.Session, prompter ui.Prompter, presenter *ui.Presenter) *Runner {
	logger := session.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if presenter == nil {
		presenter = ui.NewPresenter(nil)
	}
	return &Runner{session: session, prompter: prompter, presenter: presenter, logger: logger}
}

// Run renders screens until the quit screen is reached. BLIH failures are reported and navigation continues;
// prompt failures other than an abort end the run.
func (runner *Runner) Run(executionContext context.Context) error {
	state := InitialState()
	for state.Screen != ScreenQuit {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		event, renderError := runner.render(executionContext, state)
		if errors.Is(renderError, ui.ErrPromptAborted) {
			event = Event{Kind: EventBack}
		} else if renderError != nil {
			return renderError
		}

		nextState := Transition(state, event)
		runner.logger.Debug(transitionLogMessageConstant,
			zap.Stringer(screenFromLogFieldConstant, state.Screen),
			zap.Stringer(screenToLogFieldConstant, nextState.Screen),
			zap.String(repositoryLogFieldConstant, nextState.Repository))
		state = nextState
	}
	return nil
}

func (runner *Runner) render(executionContext context.Context, state State) (Event, error) {
	switch state.Screen {
	case ScreenMain:
		return runner.renderMain()
	case ScreenRepositoryList:
		return runner.renderRepositoryList(executionContext)
	case ScreenNewRepository:
		return runner.renderNewRepository(executionContext)
	case ScreenRepositoryDetail:
		return runner.renderRepositoryDetail(executionContext, state.Repository)
	case ScreenAddACL:
		return runner.renderAddACL(executionContext, state.Repository)
	case ScreenEditACL:
		return runner.renderEditACL(executionContext, state.Repository, state.User)
	case ScreenConfirmDelete:
		return runner.renderConfirmDelete(executionContext, state.Repository)
	default:
		return Event{Kind: EventQuit}, nil
	}
}

func (runner *Runner) renderMain() (Event, error) {
	choice, selectError := runner.prompter.Select(mainMenuTitleConstant, []ui.SelectOption{
		{Label: mainNewRepositoryLabelConstant, Value: optionNewRepositoryConstant},
		{Label: mainRepositoriesLabelConstant, Value: optionRepositoriesConstant},
		{Label: mainQuitLabelConstant, Value: optionQuitConstant},
	})
	if selectError != nil {
		return Event{}, selectError
	}

	switch choice {
	case optionNewRepositoryConstant:
		return Event{Kind: EventOpenNewRepository}, nil
	case optionRepositoriesConstant:
		return Event{Kind: EventOpenRepositories}, nil
	default:
		return Event{Kind: EventQuit}, nil
	}
}

func (runner *Runner) renderRepositoryList(executionContext context.Context) (Event, error) {
	repositoryNames, listError := runner.session.Client.ListRepositories(executionContext, runner.session.Credentials)
	if listError != nil {
		return runner.failed(listError), nil
	}
	if len(repositoryNames) == 0 {
		runner.presenter.Info(noRepositoriesMessageConstant)
		return Event{Kind: EventBack}, nil
	}

	options := make([]ui.SelectOption, 0, len(repositoryNames)+1)
	for _, repositoryName := range repositoryNames {
		options = append(options, ui.SelectOption{Label: repositoryName, Value: repositoryName})
	}
	options = append(options, ui.SelectOption{Label: backLabelConstant, Value: optionBackConstant})

	choice, selectError := runner.prompter.Select(repositoryListTitleConstant, options)
	if selectError != nil {
		return Event{}, selectError
	}
	if choice == optionBackConstant || len(choice) == 0 {
		return Event{Kind: EventBack}, nil
	}
	return Event{Kind: EventSelectRepository, Repository: choice}, nil
}

func (runner *Runner) renderNewRepository(executionContext context.Context) (Event, error) {
	repositoryName, nameError := runner.prompter.Input(repositoryNameTitleConstant, "")
	if nameError != nil {
		return Event{}, nameError
	}
	if len(strings.TrimSpace(repositoryName)) == 0 {
		return Event{Kind: EventBack}, nil
	}
	repositoryName, nameValidationError := blih.ValidateRepositoryName(repositoryName)
	if nameValidationError != nil {
		runner.presenter.Error(nameValidationError.Error())
		return Event{Kind: EventNone}, nil
	}

	description, descriptionError := runner.prompter.Input(repositoryDescriptionConstant, "")
	if descriptionError != nil {
		return Event{}, descriptionError
	}

	message, createError := runner.session.Client.CreateRepository(executionContext, runner.session.Credentials, blih.CreateRepositoryRequest{
		Name:        repositoryName,
		Description: strings.TrimSpace(description),
	})
	if createError != nil {
		return runner.failed(createError), nil
	}
	runner.presenter.Info(message)
	return Event{Kind: EventRepositoryCreated, Repository: repositoryName}, nil
}

func (runner *Runner) renderRepositoryDetail(executionContext context.Context, repositoryName string) (Event, error) {
	info, infoError := runner.session.Client.RepositoryInfo(executionContext, runner.session.Credentials, repositoryName)
	if infoError != nil {
		return runner.failed(infoError), nil
	}
	acls, aclsError := runner.session.Client.GetACLsOrEmpty(executionContext, runner.session.Credentials, repositoryName)
	if aclsError != nil {
		return runner.failed(aclsError), nil
	}

	runner.presenter.RepositoryInfo(info)
	runner.presenter.ACLTable(acls)

	options := []ui.SelectOption{{Label: detailAddACLLabelConstant, Value: optionAddACLConstant}}
	if len(acls) > 0 {
		options = append(options, ui.SelectOption{Label: detailEditACLLabelConstant, Value: optionEditACLConstant})
	}
	options = append(options,
		ui.SelectOption{Label: detailDeleteLabelConstant, Value: optionDeleteConstant},
		ui.SelectOption{Label: backLabelConstant, Value: optionBackConstant},
	)

	choice, selectError := runner.prompter.Select(fmt.Sprintf(repositoryActionTitleConstant, repositoryName), options)
	if selectError != nil {
		return Event{}, selectError
	}

	switch choice {
	case optionAddACLConstant:
		return Event{Kind: EventOpenAddACL}, nil
	case optionEditACLConstant:
		return runner.chooseACLUser(acls)
	case optionDeleteConstant:
		return Event{Kind: EventRequestDelete}, nil
	default:
		return Event{Kind: EventBack}, nil
	}
}

func (runner *Runner) chooseACLUser(acls blih.ACLs) (Event, error) {
	userNames := acls.Users()
	options := make([]ui.SelectOption, 0, len(userNames)+1)
	for _, userName := range userNames {
		options = append(options, ui.SelectOption{Label: userName + " (" + acls[userName] + ")", Value: userName})
	}
	options = append(options, ui.SelectOption{Label: backLabelConstant, Value: optionBackConstant})

	choice, selectError := runner.prompter.Select(editACLUserTitleConstant, options)
	if selectError != nil {
		return Event{}, selectError
	}
	if choice == optionBackConstant || len(choice) == 0 {
		return Event{Kind: EventNone}, nil
	}
	return Event{Kind: EventOpenEditACL, User: choice}, nil
}

func (runner *Runner) renderAddACL(executionContext context.Context, repositoryName string) (Event, error) {
	userName, userError := runner.prompter.Input(addACLUserTitleConstant, "")
	if userError != nil {
		return Event{}, userError
	}
	userName = strings.TrimSpace(userName)
	if len(userName) == 0 {
		return Event{Kind: EventBack}, nil
	}
	return runner.editACL(executionContext, repositoryName, userName, "", false)
}

func (runner *Runner) renderEditACL(executionContext context.Context, repositoryName string, userName string) (Event, error) {
	acls, aclsError := runner.session.Client.GetACLsOrEmpty(executionContext, runner.session.Credentials, repositoryName)
	if aclsError != nil {
		return runner.failed(aclsError), nil
	}
	return runner.editACL(executionContext, repositoryName, userName, acls[userName], true)
}

// editACL toggles permission letters until the user saves, removes or cancels.
func (runner *Runner) editACL(executionContext context.Context, repositoryName string, userName string, currentACL string, existing bool) (Event, error) {
	acl, normalizationError := blih.NormalizeACL(currentACL)
	if normalizationError != nil {
		return runner.failed(normalizationError), nil
	}

	saveLabel := aclAddLabelConstant
	if existing {
		saveLabel = aclSaveLabelConstant
	}

	for {
		options := make([]ui.SelectOption, 0, len(aclLetterLabels)+3)
		for _, letterLabel := range aclLetterLabels {
			marker := uncheckedMarkerConstant
			if strings.ContainsRune(acl, letterLabel.letter) {
				marker = checkedMarkerConstant
			}
			options = append(options, ui.SelectOption{Label: marker + letterLabel.label, Value: string(letterLabel.letter)})
		}
		options = append(options, ui.SelectOption{Label: saveLabel, Value: optionSaveConstant})
		if existing {
			options = append(options, ui.SelectOption{Label: aclRemoveLabelConstant, Value: optionRemoveConstant})
		}
		options = append(options, ui.SelectOption{Label: aclCancelLabelConstant, Value: optionCancelConstant})

		displayedACL := acl
		if len(displayedACL) == 0 {
			displayedACL = noRightsLabelConstant
		}
		choice, selectError := runner.prompter.Select(fmt.Sprintf(aclEditorTitleTemplateConstant, userName, repositoryName, displayedACL), options)
		if selectError != nil {
			return Event{}, selectError
		}

		switch choice {
		case optionSaveConstant:
			return runner.saveACL(executionContext, repositoryName, userName, acl)
		case optionRemoveConstant:
			return runner.saveACL(executionContext, repositoryName, userName, "")
		case optionCancelConstant, "":
			return Event{Kind: EventBack}, nil
		default:
			toggledACL, toggleError := blih.ToggleACLLetter(acl, []rune(choice)[0])
			if toggleError != nil {
				return runner.failed(toggleError), nil
			}
			acl = toggledACL
		}
	}
}

func (runner *Runner) saveACL(executionContext context.Context, repositoryName string, userName string, acl string) (Event, error) {
	message, setError := runner.session.Client.SetACL(executionContext, runner.session.Credentials, blih.SetACLRequest{
		Repository: repositoryName,
		User:       userName,
		ACL:        acl,
	})
	if setError != nil {
		return runner.failed(setError), nil
	}
	runner.presenter.Info(message)
	return Event{Kind: EventACLSaved}, nil
}

func (runner *Runner) renderConfirmDelete(executionContext context.Context, repositoryName string) (Event, error) {
	confirmed, confirmError := runner.prompter.Confirm(fmt.Sprintf(confirmDeleteTemplateConstant, repositoryName))
	if confirmError != nil {
		return Event{}, confirmError
	}
	if !confirmed {
		runner.presenter.Info(fmt.Sprintf(deletionCancelledConstant, repositoryName))
		return Event{Kind: EventDeleteCancelled}, nil
	}

	message, deleteError := runner.session.Client.DeleteRepository(executionContext, runner.session.Credentials, repositoryName)
	if deleteError != nil {
		return runner.failed(deleteError), nil
	}
	runner.presenter.Info(message)
	return Event{Kind: EventDeleteConfirmed}, nil
}

func (runner *Runner) failed(cause error) Event {
	runner.presenter.Error(cause.Error())
	return Event{Kind: EventFailed}
}
