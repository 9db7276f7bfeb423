package blih

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// MaximumRepositoryNameLength bounds the names the menu accepts.
	MaximumRepositoryNameLength = 64

	repositoryNameInvalidMessageConstant = "must only contain letters, digits, '-' and '_'"
	repositoryNamePatternExpression      = `^[A-Za-z0-9_-]+$`
)

var repositoryNamePattern = regexp.MustCompile(repositoryNamePatternExpression)

// ValidateRepositoryName checks a repository name typed by the user and returns it trimmed.
func ValidateRepositoryName(repositoryName string) (string, error) {
	trimmedName := strings.TrimSpace(repositoryName)
	validationError := validation.Validate(trimmedName,
		validation.Required,
		validation.Length(1, MaximumRepositoryNameLength),
		validation.Match(repositoryNamePattern).Error(repositoryNameInvalidMessageConstant),
	)
	if validationError != nil {
		return "", InvalidInputError{FieldName: repositoryNameFieldConstant, Message: validationError.Error()}
	}
	return trimmedName, nil
}
