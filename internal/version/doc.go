// Package version exposes build metadata shared by axiom-fetch and axiom-sync.
//
// Version, Commit and BuildTime are injected with -ldflags "-X ...".
package version
