// Package vcs is the narrow version-control capability used by axiom-sync:
// query the status of a working copy, add a path, remove a path.
//
// Subversion implements it by running the svn command-line client. The status
// parser follows the column layout of `svn status -v` exactly.
package vcs
