package blob

import fsstore "menagerie/internal/infra/blob/fs"

// NewFilesystem returns a filesystem blob store rooted at root (default ./blobdata).
func NewFilesystem(root string) (Store, error) {
	return fsstore.New(root)
}
