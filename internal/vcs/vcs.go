package vcs

import "context"

const (
	// StatusUnknown marks a path that is not under version control.
	StatusUnknown byte = '?'
	// StatusDeleted marks a path scheduled for deletion.
	StatusDeleted byte = 'D'
)

// Entry is one path reported by a status query.
type Entry struct {
	// Code is the item status character.
	Code byte
	// Path is relative to the working-copy root; the root itself is ".".
	Path string
	// IsDir reports whether Path is a directory on disk.
	IsDir bool
}

// Tracked reports whether the entry is part of the index and not leaving it.
func (e Entry) Tracked() bool {
	return e.Code != StatusUnknown && e.Code != StatusDeleted
}

// Client is the version-control capability needed to mirror a tree.
// Paths passed to Add and Remove are relative to root.
type Client interface {
	Status(ctx context.Context, root string) ([]Entry, error)
	Add(ctx context.Context, root, path string) error
	Remove(ctx context.Context, root, path string) error
}
