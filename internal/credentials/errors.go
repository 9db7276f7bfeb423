package credentials

import "fmt"

const (
	// SetupHint tells the user how to repair a missing or invalid credentials file.
	SetupHint = "'blihbetter config' to create a valid config file."

	invalidCredentialsTemplateConstant = "Invalid config file '%s'"
	writeCredentialsTemplateConstant   = "Unable to create config file '%s'"
	errorCauseTemplateConstant         = "%s: %v"
)

// InvalidCredentialsError reports a credentials file that is missing, unreadable, or incomplete.
type InvalidCredentialsError struct {
	Path  string
	Cause error
}

func (invalidError InvalidCredentialsError) Error() string {
	return fmt.Sprintf(invalidCredentialsTemplateConstant, invalidError.Path)
}

// Unwrap exposes the underlying cause.
func (invalidError InvalidCredentialsError) Unwrap() error {
	return invalidError.Cause
}

// WriteError reports a credentials file that could not be written.
type WriteError struct {
	Path  string
	Cause error
}

func (writeError WriteError) Error() string {
	return fmt.Sprintf(errorCauseTemplateConstant, fmt.Sprintf(writeCredentialsTemplateConstant, writeError.Path), writeError.Cause)
}

// Unwrap exposes the underlying cause.
func (writeError WriteError) Unwrap() error {
	return writeError.Cause
}
