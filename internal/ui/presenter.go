package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/blihbetter/internal/blih"
)

const (
	infoBadgeLabelConstant    = "INFO"
	errorBadgeLabelConstant   = "ERROR"
	successBadgeLabelConstant = "OK"

	configurationHeadingConstant    = "CONFIGURATION:"
	repositoryNameHeadingConstant   = "NAME:"
	aclUserColumnHeadingConstant    = "USER"
	aclRightsColumnHeadingConstant  = "ACLs"
	aclColumnSeparatorConstant      = "|"
	aclHeaderRuleCharacterConstant  = "‾"
	tokenRegisteredYesConstant      = "Yes"
	tokenRegisteredNoConstant       = "No"
	creationTimeLayoutConstant      = "2006-01-02 15:04:05"
	detailLabelWidthConstant        = 13
	configurationLabelWidthConstant = 17
	aclColumnPaddingConstant        = 2

	configurationUserLabelConstant      = "User:"
	configurationTokenLabelConstant     = "Token registered:"
	configurationGitURLLabelConstant    = "Git URL:"
	configurationBlihURLLabelConstant   = "Blih URL:"
	configurationUserAgentLabelConstant = "Blih user agent:"
	configurationFileLabelConstant      = "Config file:"

	detailURLLabelConstant          = "Url:"
	detailUUIDLabelConstant         = "UUID:"
	detailDescriptionLabelConstant  = "Description:"
	detailPublicLabelConstant       = "Public:"
	detailCreationTimeLabelConstant = "Creation date:"

	colorWhiteConstant  = "15"
	colorRedConstant    = "1"
	colorBlueConstant   = "4"
	colorGreenConstant  = "2"
	colorCyanConstant   = "6"
	colorYellowConstant = "3"
)

var logoLines = []string{
	`   ___  ___ __     ___      __  __         `,
	`  / _ )/ (_) /    / _ )___ / /_/ /____ ____`,
	` / _  / / / _ \  / _  / -_) __/ __/ -_) __/`,
	`/____/_/_/_//_/ /____/\__/\__/\__/\__/_/   `,
}

// ConfigurationSummary is the non-secret view of the stored credentials.
type ConfigurationSummary struct {
	Path            string
	User            string
	TokenRegistered bool
	GitURL          string
	BlihURL         string
	UserAgent       string
}

// Presenter writes user-facing output. Colors are emitted only when the output is a color-capable terminal.
type Presenter struct {
	output         io.Writer
	infoBadge      lipgloss.Style
	errorBadge     lipgloss.Style
	successBadge   lipgloss.Style
	headingStyle   lipgloss.Style
	accentStyle    lipgloss.Style
	emphasisStyle  lipgloss.Style
	faintStyle     lipgloss.Style
	separatorStyle lipgloss.Style
	cellStyle      lipgloss.Style
}

// NewPresenter constructs a Presenter for output; a nil output discards everything.
func NewPresenter(output io.Writer) *Presenter {
	if output == nil {
		output = io.Discard
	}

	renderer := lipgloss.NewRenderer(output)
	badgeStyle := renderer.NewStyle().Foreground(lipgloss.Color(colorWhiteConstant)).Padding(0, 1)

	return &Presenter{
		output:         output,
		infoBadge:      badgeStyle.Background(lipgloss.Color(colorBlueConstant)),
		errorBadge:     badgeStyle.Background(lipgloss.Color(colorRedConstant)),
		successBadge:   badgeStyle.Background(lipgloss.Color(colorGreenConstant)),
		headingStyle:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(colorYellowConstant)),
		accentStyle:    renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(colorCyanConstant)),
		emphasisStyle:  renderer.NewStyle().Bold(true),
		faintStyle:     renderer.NewStyle().Faint(true),
		separatorStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(colorYellowConstant)),
		cellStyle:      renderer.NewStyle().Align(lipgloss.Center),
	}
}

// Writer exposes the underlying output.
func (presenter *Presenter) Writer() io.Writer {
	return presenter.output
}

// Info prints an informational message.
func (presenter *Presenter) Info(message string) {
	presenter.printBadged(presenter.infoBadge, infoBadgeLabelConstant, message)
}

// Error prints an error message.
func (presenter *Presenter) Error(message string) {
	presenter.printBadged(presenter.errorBadge, errorBadgeLabelConstant, message)
}

// Success prints a success message.
func (presenter *Presenter) Success(message string) {
	presenter.printBadged(presenter.successBadge, successBadgeLabelConstant, message)
}

// Hint prints a de-emphasized line.
func (presenter *Presenter) Hint(message string) {
	fmt.Fprintln(presenter.output, presenter.faintStyle.Render(message))
}

// Heading prints a section title followed by a blank line.
func (presenter *Presenter) Heading(title string) {
	fmt.Fprintln(presenter.output, presenter.headingStyle.Render(title))
	fmt.Fprintln(presenter.output)
}

// Emphasis renders text in bold without printing it.
func (presenter *Presenter) Emphasis(text string) string {
	return presenter.emphasisStyle.Render(text)
}

// Logo prints the banner.
func (presenter *Presenter) Logo() {
	fmt.Fprintln(presenter.output)
	for _, logoLine := range logoLines {
		fmt.Fprintln(presenter.output, presenter.accentStyle.Render(logoLine))
	}
	fmt.Fprintln(presenter.output)
}

// Lines prints each value on its own line.
func (presenter *Presenter) Lines(values []string) {
	for _, value := range values {
		fmt.Fprintln(presenter.output, value)
	}
}

// Configuration prints the stored configuration without revealing the token.
func (presenter *Presenter) Configuration(summary ConfigurationSummary) {
	presenter.Heading(configurationHeadingConstant)

	tokenRegistered := tokenRegisteredNoConstant
	if summary.TokenRegistered {
		tokenRegistered = tokenRegisteredYesConstant
	}

	rows := [][2]string{
		{configurationUserLabelConstant, summary.User},
		{configurationTokenLabelConstant, tokenRegistered},
		{configurationGitURLLabelConstant, summary.GitURL},
		{configurationBlihURLLabelConstant, summary.BlihURL},
	}
	if len(summary.UserAgent) > 0 {
		rows = append(rows, [2]string{configurationUserAgentLabelConstant, summary.UserAgent})
	}
	if len(summary.Path) > 0 {
		rows = append(rows, [2]string{configurationFileLabelConstant, summary.Path})
	}

	for _, row := range rows {
		fmt.Fprintf(presenter.output, "%-*s %s\n", configurationLabelWidthConstant, row[0], row[1])
	}
	fmt.Fprintln(presenter.output)
}

// RepositoryInfo prints repository details. Empty fields are skipped.
func (presenter *Presenter) RepositoryInfo(info blih.RepositoryInfo) {
	fmt.Fprintln(presenter.output, presenter.headingStyle.Render(repositoryNameHeadingConstant)+" "+presenter.emphasisStyle.Render(info.Name))
	fmt.Fprintln(presenter.output)

	creationTime := ""
	if !info.CreationTime.IsZero() {
		creationTime = info.CreationTime.Format(creationTimeLayoutConstant)
	}

	rows := [][2]string{
		{detailURLLabelConstant, info.URL},
		{detailUUIDLabelConstant, info.UUID},
		{detailDescriptionLabelConstant, info.Description},
		{detailPublicLabelConstant, info.Public},
		{detailCreationTimeLabelConstant, creationTime},
	}
	for _, row := range rows {
		if len(row[1]) == 0 {
			continue
		}
		label := fmt.Sprintf("%*s", detailLabelWidthConstant, row[0])
		fmt.Fprintln(presenter.output, presenter.headingStyle.Render(label)+" "+row[1])
	}
	fmt.Fprintln(presenter.output)
}

// ACLTable prints a two-column USER | ACLs table sorted by user. An empty mapping prints only the header.
func (presenter *Presenter) ACLTable(acls blih.ACLs) {
	userColumnWidth := len(aclUserColumnHeadingConstant)
	rightsColumnWidth := len(aclRightsColumnHeadingConstant)
	userNames := acls.Users()
	for _, userName := range userNames {
		userColumnWidth = max(userColumnWidth, lipgloss.Width(userName))
		rightsColumnWidth = max(rightsColumnWidth, lipgloss.Width(acls[userName]))
	}
	userColumnWidth += aclColumnPaddingConstant
	rightsColumnWidth += aclColumnPaddingConstant

	separator := presenter.separatorStyle.Render(aclColumnSeparatorConstant)
	fmt.Fprintln(presenter.output,
		presenter.accentStyle.Width(userColumnWidth).Align(lipgloss.Center).Render(aclUserColumnHeadingConstant)+separator+
			presenter.accentStyle.Width(rightsColumnWidth).Align(lipgloss.Center).Render(aclRightsColumnHeadingConstant))
	fmt.Fprintln(presenter.output, presenter.separatorStyle.Render(
		strings.Repeat(aclHeaderRuleCharacterConstant, userColumnWidth)+aclColumnSeparatorConstant+strings.Repeat(aclHeaderRuleCharacterConstant, rightsColumnWidth)))

	cellStyle := presenter.cellStyle
	for _, userName := range userNames {
		fmt.Fprintln(presenter.output,
			cellStyle.Width(userColumnWidth).Render(userName)+separator+cellStyle.Width(rightsColumnWidth).Render(acls[userName]))
	}
}

// SSHKeys prints each key name followed by the key text.
func (presenter *Presenter) SSHKeys(sshKeys []blih.SSHKey) {
	fmt.Fprintln(presenter.output)
	for _, sshKey := range sshKeys {
		fmt.Fprintln(presenter.output, presenter.headingStyle.Render(sshKey.Name))
		fmt.Fprintln(presenter.output, sshKey.Key)
		fmt.Fprintln(presenter.output)
	}
}

func (presenter *Presenter) printBadged(badgeStyle lipgloss.Style, label string, message string) {
	fmt.Fprintln(presenter.output, badgeStyle.Render(label)+" "+message)
}
