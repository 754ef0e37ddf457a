package ports

// FileSystem abstracts file system operations.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// Rename moves a file, replacing the destination if it exists.
	Rename(oldPath, newPath string) error

	// FileSize returns the size of a regular file in bytes.
	FileSize(path string) (int64, error)

	// ListDir returns the sorted base names of the regular files in a
	// directory.
	ListDir(path string) ([]string, error)

	// TempDir creates a fresh directory for scratch files and returns
	// its path. The caller is responsible for removing it.
	TempDir(pattern string) (string, error)

	// RemoveAll deletes a path and any children it contains.
	RemoveAll(path string) error
}
