// Package release names the artifacts published for an Axiom release and
// derives their local directory, file names and repository URLs.
package release
