package blih

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Credentials identifies a BLIH account and the endpoints it talks to.
// Token holds the hex-encoded SHA-512 digest of the account password, never the password itself.
type Credentials struct {
	User      string `json:"user"`
	Token     string `json:"token"`
	GitURL    string `json:"git_url"`
	BlihURL   string `json:"blih_url"`
	UserAgent string `json:"blih_user_agent"`
}

// Validate reports every missing credential field.
func (credentials Credentials) Validate() error {
	return validation.ValidateStruct(&credentials,
		validation.Field(&credentials.User, validation.Required),
		validation.Field(&credentials.Token, validation.Required),
		validation.Field(&credentials.GitURL, validation.Required),
		validation.Field(&credentials.BlihURL, validation.Required),
		validation.Field(&credentials.UserAgent, validation.Required),
	)
}

// RepositoryRemote returns the git remote of a repository owned by the account.
func (credentials Credentials) RepositoryRemote(repositoryName string) string {
	return credentials.GitURL + remoteOwnerSeparatorConstant + credentials.User + remotePathSeparatorConstant + repositoryName
}

// RemoteNamespace returns the git remote prefix shared by every repository of the account.
func (credentials Credentials) RemoteNamespace() string {
	return credentials.GitURL + remoteOwnerSeparatorConstant + credentials.User
}

const (
	remoteOwnerSeparatorConstant = ":"
	remotePathSeparatorConstant  = "/"
)
