// Package sshkeys implements the sshkey command group: list, upload and remove public keys.
package sshkeys
