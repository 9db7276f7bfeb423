package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

const (
	promptAbortedMessageConstant        = "prompt aborted"
	confirmationSuffixConstant          = " [y/N]: "
	inputSuffixConstant                 = ": "
	inputWithDefaultTemplateConstant    = "%s [%s]: "
	selectOptionTemplateConstant        = "  %d) %s\n"
	selectChoiceTitleTemplateConstant   = "%s [1-%d]: "
	invalidSelectionTemplateConstant    = "invalid selection %q"
	confirmationAffirmativeConstant     = "Yes"
	confirmationNegativeConstant        = "No"
	promptInputErrorTemplateConstant    = "prompt input: %w"
	promptSelectErrorTemplateConstant   = "prompt select: %w"
	promptConfirmErrorTemplateConstant  = "prompt confirm: %w"
	promptPasswordErrorTemplateConstant = "prompt password: %w"
)

// ErrPromptAborted reports an interrupted prompt (ctrl+c or closed input).
var ErrPromptAborted = errors.New(promptAbortedMessageConstant)

// SelectOption is a labelled choice.
type SelectOption struct {
	Label string
	Value string
}

// Prompter collects interactive answers.
type Prompter interface {
	Input(title string, placeholder string) (string, error)
	Password(title string) (string, error)
	Confirm(title string) (bool, error)
	Select(title string, options []SelectOption) (string, error)
}

// IsTerminal reports whether file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fileDescriptor := file.Fd()
	return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
}

// IsInteractiveInput reports whether input is a terminal a person can answer prompts on.
func IsInteractiveInput(input io.Reader) bool {
	file, isFile := input.(*os.File)
	return isFile && IsTerminal(file)
}

// ResolvePrompter returns existing when set, a huh prompter for terminal input, or a line prompter otherwise.
func ResolvePrompter(existing Prompter, input io.Reader, output io.Writer) Prompter {
	if existing != nil {
		return existing
	}
	if IsInteractiveInput(input) {
		return HuhPrompter{}
	}
	return NewIOPrompter(input, output)
}

var runInputPrompt = func(title string, placeholder string, value *string) error {
	return huh.NewInput().Title(title).Placeholder(placeholder).Value(value).Run()
}

var runPasswordPrompt = func(title string, value *string) error {
	return huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(value).Run()
}

var runConfirmPrompt = func(title string, value *bool) error {
	return huh.NewConfirm().Title(title).Affirmative(confirmationAffirmativeConstant).Negative(confirmationNegativeConstant).Value(value).Run()
}

var runSelectPrompt = func(title string, options []huh.Option[string], selected *string) error {
	return huh.NewSelect[string]().Title(title).Options(options...).Value(selected).Run()
}

// HuhPrompter implements Prompter with huh terminal forms.
type HuhPrompter struct{}

// Input asks for a line of text.
func (prompter HuhPrompter) Input(title string, placeholder string) (string, error) {
	var value string
	if promptError := runInputPrompt(title, placeholder, &value); promptError != nil {
		return "", wrapHuhError(promptInputErrorTemplateConstant, promptError)
	}
	return value, nil
}

// Password asks for a secret without echoing it.
func (prompter HuhPrompter) Password(title string) (string, error) {
	var value string
	if promptError := runPasswordPrompt(title, &value); promptError != nil {
		return "", wrapHuhError(promptPasswordErrorTemplateConstant, promptError)
	}
	return value, nil
}

// Confirm asks a yes/no question.
func (prompter HuhPrompter) Confirm(title string) (bool, error) {
	var confirmed bool
	if promptError := runConfirmPrompt(title, &confirmed); promptError != nil {
		return false, wrapHuhError(promptConfirmErrorTemplateConstant, promptError)
	}
	return confirmed, nil
}

// Select asks for one option and returns its value.
func (prompter HuhPrompter) Select(title string, options []SelectOption) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	var selected string
	if promptError := runSelectPrompt(title, huhOptions(options), &selected); promptError != nil {
		return "", wrapHuhError(promptSelectErrorTemplateConstant, promptError)
	}
	return selected, nil
}

func huhOptions(options []SelectOption) []huh.Option[string] {
	converted := make([]huh.Option[string], len(options))
	for optionIndex, option := range options {
		converted[optionIndex] = huh.NewOption(option.Label, option.Value)
	}
	return converted
}

func wrapHuhError(template string, promptError error) error {
	if errors.Is(promptError, huh.ErrUserAborted) {
		return ErrPromptAborted
	}
	return fmt.Errorf(template, promptError)
}

// IOPrompter implements Prompter over plain line-oriented streams, for pipes and tests.
type IOPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOPrompter constructs a prompter reading answers from input and writing questions to output.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	if output == nil {
		output = io.Discard
	}
	return &IOPrompter{reader: bufio.NewReader(input), writer: output}
}

// Input writes the title and reads one line. The placeholder is shown as the default and returned for blank answers.
func (prompter *IOPrompter) Input(title string, placeholder string) (string, error) {
	if len(placeholder) > 0 {
		fmt.Fprintf(prompter.writer, inputWithDefaultTemplateConstant, title, placeholder)
	} else {
		fmt.Fprint(prompter.writer, title+inputSuffixConstant)
	}
	answer, readError := prompter.readLine()
	if readError != nil {
		return "", readError
	}
	if len(answer) == 0 {
		return placeholder, nil
	}
	return answer, nil
}

// Password reads one line; streams cannot hide input.
func (prompter *IOPrompter) Password(title string) (string, error) {
	fmt.Fprint(prompter.writer, title+inputSuffixConstant)
	return prompter.readLine()
}

// Confirm accepts y and yes, case-insensitively.
func (prompter *IOPrompter) Confirm(title string) (bool, error) {
	fmt.Fprint(prompter.writer, title+confirmationSuffixConstant)
	answer, readError := prompter.readLine()
	if readError != nil {
		if errors.Is(readError, ErrPromptAborted) {
			return false, nil
		}
		return false, readError
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Select lists the options numbered from 1 and accepts a number or an option value.
func (prompter *IOPrompter) Select(title string, options []SelectOption) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	for optionIndex, option := range options {
		fmt.Fprintf(prompter.writer, selectOptionTemplateConstant, optionIndex+1, option.Label)
	}
	fmt.Fprintf(prompter.writer, selectChoiceTitleTemplateConstant, title, len(options))

	answer, readError := prompter.readLine()
	if readError != nil {
		return "", readError
	}
	return resolveOption(answer, options)
}

func (prompter *IOPrompter) readLine() (string, error) {
	line, readError := prompter.reader.ReadString('\n')
	if readError != nil {
		if !errors.Is(readError, io.EOF) {
			return "", readError
		}
		if len(line) == 0 {
			return "", ErrPromptAborted
		}
	}
	return strings.TrimSpace(line), nil
}

func resolveOption(answer string, options []SelectOption) (string, error) {
	if optionNumber, parseError := strconv.Atoi(answer); parseError == nil && optionNumber >= 1 && optionNumber <= len(options) {
		return options[optionNumber-1].Value, nil
	}
	for _, option := range options {
		if strings.EqualFold(option.Value, answer) || strings.EqualFold(option.Label, answer) {
			return option.Value, nil
		}
	}
	return "", fmt.Errorf(invalidSelectionTemplateConstant, answer)
}
