// Package syncer mirrors a source tree into a Subversion working copy.
//
// A sync scans the index of the destination once, copies every source file
// over the destination, adds what the index did not know and removes what the
// source no longer has. Protected paths such as .htaccess are never removed.
// There is no rollback: an interrupted sync leaves a partially updated working
// copy, and a fresh checkout is the way back.
package syncer
