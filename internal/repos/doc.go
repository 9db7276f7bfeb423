// Package repos implements the repository commands: ls, create, new, clone, rm and info.
package repos
