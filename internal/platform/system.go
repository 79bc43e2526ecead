package platform

import (
	"io/fs"
	"os"
)

// System abstracts the filesystem operations needed to read and patch a
// project checkout.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm os.FileMode) error
	Remove(name string) error
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
}

// OS implements System using the OS filesystem.
type OS struct{}

// Stat returns a FileInfo describing the named file.
func (OS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (OS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// ReadDir reads the named directory, returning its entries sorted by name.
func (OS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (OS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes the named file or empty directory.
func (OS) Remove(name string) error {
	return os.Remove(name)
}

// WriteFileAtomic writes data to a temp file beside filename and renames it
// into place.
func (OS) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return WriteFileAtomic(filename, data, perm)
}

// Exists reports whether name exists on sys. Errors other than not-exist
// count as existing so callers surface them on the following read.
func Exists(sys System, name string) bool {
	_, err := sys.Stat(name)
	return err == nil || !os.IsNotExist(err)
}

// ReadOrEmpty returns the contents of name, or nil when it does not exist.
func ReadOrEmpty(sys System, name string) ([]byte, error) {
	data, err := sys.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}
