// Package cli constructs the blihbetter command-line interface, wiring the
// Cobra command hierarchy, configuration loader, structured logging and the
// BLIH command builders. It also maps command failures to process exit codes.
package cli
