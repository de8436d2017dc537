// Package integration exercises axiom-fetch and axiom-sync end to end against
// a local HTTP server and, when installed, a real Subversion repository.
package integration
