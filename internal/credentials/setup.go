package credentials

import (
	"strings"

	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/ui"
)

const (
	// DefaultGitURL is the git host used when setup leaves the answer blank.
	DefaultGitURL = "git@git.epitech.eu"
	// DefaultBlihURL is the BLIH endpoint used when setup leaves the answer blank.
	DefaultBlihURL = "https://blih.epitech.eu/"
	// DefaultUserAgent is the User-Agent BLIH expects when setup leaves the answer blank.
	DefaultUserAgent = "blih-1.7-win"

	userPromptTitleConstant      = "User"
	passwordPromptTitleConstant  = "Password"
	gitURLPromptTitleConstant    = "Git url"
	blihURLPromptTitleConstant   = "Blih url"
	userAgentPromptTitleConstant = "Blih user agent"
)

// SetupService collects credentials interactively and persists them.
type SetupService struct {
	prompter ui.Prompter
}

// NewSetupService constructs a setup service asking questions through prompter.
func NewSetupService(prompter ui.Prompter) *SetupService {
	return &SetupService{prompter: prompter}
}

// Collect asks for every credential field. The password is hashed immediately and never returned.
func (service *SetupService) Collect() (blih.Credentials, error) {
	user, userError := service.prompter.Input(userPromptTitleConstant, "")
	if userError != nil {
		return blih.Credentials{}, userError
	}

	password, passwordError := service.prompter.Password(passwordPromptTitleConstant)
	if passwordError != nil {
		return blih.Credentials{}, passwordError
	}

	gitURL, gitURLError := service.askWithDefault(gitURLPromptTitleConstant, DefaultGitURL)
	if gitURLError != nil {
		return blih.Credentials{}, gitURLError
	}

	blihURL, blihURLError := service.askWithDefault(blihURLPromptTitleConstant, DefaultBlihURL)
	if blihURLError != nil {
		return blih.Credentials{}, blihURLError
	}

	userAgent, userAgentError := service.askWithDefault(userAgentPromptTitleConstant, DefaultUserAgent)
	if userAgentError != nil {
		return blih.Credentials{}, userAgentError
	}

	return blih.Credentials{
		User:      strings.TrimSpace(user),
		Token:     HashPassword(password),
		GitURL:    gitURL,
		BlihURL:   blihURL,
		UserAgent: userAgent,
	}, nil
}

// Run collects credentials and saves them to store.
func (service *SetupService) Run(store *Store) (blih.Credentials, error) {
	credentials, collectError := service.Collect()
	if collectError != nil {
		return blih.Credentials{}, collectError
	}
	if saveError := store.Save(credentials); saveError != nil {
		return blih.Credentials{}, saveError
	}
	return credentials, nil
}

func (service *SetupService) askWithDefault(title string, defaultValue string) (string, error) {
	answer, promptError := service.prompter.Input(title, defaultValue)
	if promptError != nil {
		return "", promptError
	}
	trimmedAnswer := strings.TrimSpace(answer)
	if len(trimmedAnswer) == 0 {
		return defaultValue, nil
	}
	return trimmedAnswer, nil
}
