// Package acls implements the repository ACL commands.
package acls
