package types

import "io/fs"

// ItemType classifies a filesystem item as seen by the walker.
// Classification is link-aware: a symbolic link is always ItemSymlink,
// whatever it points to.
type ItemType int

const (
	ItemDirectory ItemType = iota
	ItemFile
	ItemSymlink
)

// String returns the string representation of the item type
func (t ItemType) String() string {
	switch t {
	case ItemDirectory:
		return "directory"
	case ItemFile:
		return "file"
	case ItemSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// ItemTypeFromMode classifies an item from the mode returned by Lstat.
// Special files (devices, sockets, pipes) are treated as files: they are
// leaves and are emitted like any other non-directory item.
func ItemTypeFromMode(mode fs.FileMode) ItemType {
	switch {
	case mode&fs.ModeSymlink != 0:
		return ItemSymlink
	case mode.IsDir():
		return ItemDirectory
	default:
		return ItemFile
	}
}

// ParseItemType parses an item type name as used in configuration files
func ParseItemType(s string) (ItemType, bool) {
	switch s {
	case "directory", "dir":
		return ItemDirectory, true
	case "file":
		return ItemFile, true
	case "symlink", "link":
		return ItemSymlink, true
	default:
		return ItemFile, false
	}
}
