package models

import "time"

type FolderKind string

const (
	FolderKindSystem FolderKind = "system"
	FolderKindUser   FolderKind = "user"
)

// Names of the two system folders every user owns. They are created at
// account provisioning and can never be renamed or deleted.
const (
	FolderNameInbox = "Inbox"
	FolderNameTrash = "Trash"
)

// NotificationFolder is a named bucket notifications belong to. Each
// notification sits in exactly one folder at a time.
type NotificationFolder struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Name      string     `json:"name"`
	Kind      FolderKind `json:"kind"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsSystem reports whether the folder is one of the provisioned system
// folders (Inbox or Trash).
func (f NotificationFolder) IsSystem() bool {
	return f.Kind == FolderKindSystem
}

func IsValidFolderKind(kind FolderKind) bool {
	switch kind {
	case FolderKindSystem, FolderKindUser:
		return true
	}
	return false
}
