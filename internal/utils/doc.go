// Package utils holds the plumbing shared by every blihbetter command:
// the viper-backed configuration loader, the zap logger factory and the
// context accessor that carries per-invocation paths into command builders.
package utils
