package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/temirov/blihbetter/internal/blih"
	"github.com/temirov/blihbetter/internal/utils"
	pathutils "github.com/temirov/blihbetter/internal/utils/path"
)

const (
	credentialsConfigurationTypeConstant = "json"
	credentialsTagNameConstant           = "json"
	credentialsIndentConstant            = "    "
	directoryPermissionsConstant         = 0o700
	filePermissionsConstant              = 0o600
)

var defaultPathElements = []string{".config", "epitech", "config.json"}

// DefaultPath returns ~/.config/epitech/config.json for the current user.
func DefaultPath(expander *pathutils.HomeExpander) (string, error) {
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}
	return expander.JoinHome(defaultPathElements...)
}

// ResolvePath returns the credentials path carried by the command context, falling back to DefaultPath.
func ResolvePath(executionContext context.Context, expander *pathutils.HomeExpander) (string, error) {
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}
	if executionContext != nil {
		if contextPath, found := utils.NewCommandContextAccessor().CredentialsFilePath(executionContext); found {
			return expander.Expand(contextPath), nil
		}
	}
	return DefaultPath(expander)
}

// Store reads and writes one credentials file.
type Store struct {
	path string
}

// NewStore constructs a store bound to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store is bound to.
func (store *Store) Path() string {
	return store.path
}

// Exists reports whether the credentials file is present.
func (store *Store) Exists() (bool, error) {
	_, statError := os.Stat(store.path)
	if statError == nil {
		return true, nil
	}
	if errors.Is(statError, fs.ErrNotExist) {
		return false, nil
	}
	return false, statError
}

// Load decodes and validates the credentials file.
func (store *Store) Load() (blih.Credentials, error) {
	reader := viper.New()
	reader.SetConfigFile(store.path)
	reader.SetConfigType(credentialsConfigurationTypeConstant)

	if readError := reader.ReadInConfig(); readError != nil {
		return blih.Credentials{}, InvalidCredentialsError{Path: store.path, Cause: readError}
	}

	var credentials blih.Credentials
	decodeError := reader.Unmarshal(&credentials, func(decoderConfiguration *mapstructure.DecoderConfig) {
		decoderConfiguration.TagName = credentialsTagNameConstant
	})
	if decodeError != nil {
		return blih.Credentials{}, InvalidCredentialsError{Path: store.path, Cause: decodeError}
	}

	if validationError := credentials.Validate(); validationError != nil {
		return blih.Credentials{}, InvalidCredentialsError{Path: store.path, Cause: validationError}
	}

	return credentials, nil
}

// Save writes credentials, creating parent directories readable only by the owner.
func (store *Store) Save(credentials blih.Credentials) error {
	if directoryError := os.MkdirAll(filepath.Dir(store.path), directoryPermissionsConstant); directoryError != nil {
		return WriteError{Path: store.path, Cause: directoryError}
	}

	encoded, encodeError := json.MarshalIndent(credentials, "", credentialsIndentConstant)
	if encodeError != nil {
		return WriteError{Path: store.path, Cause: encodeError}
	}
	encoded = append(encoded, '\n')

	if writeError := os.WriteFile(store.path, encoded, filePermissionsConstant); writeError != nil {
		return WriteError{Path: store.path, Cause: writeError}
	}
	return nil
}
