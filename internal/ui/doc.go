// Package ui renders blihbetter output for people: badges, the logo, ACL
// tables and repository details through lipgloss, prompts backed by huh
// forms or plain line input, and a console observer that turns git and ssh
// lifecycle events into log lines.
package ui
