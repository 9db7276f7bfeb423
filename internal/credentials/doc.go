// Package credentials stores BLIH account credentials in a local JSON file and drives the interactive setup that creates it.
package credentials
