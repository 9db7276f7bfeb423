// Package dependencies resolves the collaborators blihbetter commands share:
// loggers, stored credentials, the BLIH client and the git/ssh executor.
// Each resolver returns the injected value when present and a production default otherwise.
package dependencies
