package blob

import (
	"warburtonsos/internal/infra/blob/fs"
)

// NewFilesystem constructs a filesystem-backed Store rooted at root.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}
