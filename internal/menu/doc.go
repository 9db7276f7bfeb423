// Package menu implements the interactive repository browser.
//
// Navigation is an explicit state machine: every screen renders through a
// prompter and yields one Event, and Transition maps the current State and
// that Event to the next State without side effects.
package menu
