// Package ping checks connectivity: ping asks BLIH or the git host who the account is, whoami greets the configured user.
package ping
