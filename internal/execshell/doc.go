// Package execshell runs the external git and ssh processes blihbetter relies on
// for cloning repositories and probing the git host.
//
// ShellExecutor validates and logs every invocation, notifies
// CommandEventObserver implementations, and converts unexpected exit codes
// into CommandFailedError. OSCommandRunner is the os/exec backed runner.
package execshell
