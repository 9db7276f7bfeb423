package cli

import (
	"errors"
	"io"

	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/credentials"
	"github.com/temirov/blihbetter/internal/ui"
)

const (
	successExitCode = 0
	failureExitCode = 1
)

// ExitCode maps a command failure to the process exit status: the HTTP status for rejected BLIH requests, 1 for anything else.
func ExitCode(executionError error) int {
	if executionError == nil {
		return successExitCode
	}

	var apiError blih.APIError
	if errors.As(executionError, &apiError) && apiError.StatusCode > 0 {
		return apiError.StatusCode
	}
	return failureExitCode
}

// ReportError prints a command failure, followed by the setup hint when the credentials file is unusable.
func ReportError(output io.Writer, executionError error) {
	if executionError == nil {
		return
	}

	presenter := ui.NewPresenter(output)
	presenter.Error(executionError.Error())

	var invalidCredentialsError credentials.InvalidCredentialsError
	if errors.As(executionError, &invalidCredentialsError) {
		presenter.Hint(credentials.SetupHint)
	}
}
