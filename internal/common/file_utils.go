package common

import (
	"io"
	"os"
	"path/filepath"
)

// FileExists checks whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// EnsureDir creates the directory and any missing parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// WriteFileAtomic writes data to path via a temp file in the same directory
// followed by a rename, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return WrapErrorf(err, "creating directory '%s'", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return WrapError(err, "creating temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return WrapErrorf(err, "writing temp file '%s'", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return WrapErrorf(err, "closing temp file '%s'", tmpName)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return WrapError(err, "setting temp file permissions")
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return WrapErrorf(err, "renaming temp file to '%s'", path)
	}
	return nil
}

// CopyFile copies src to dst, creating parent directories as needed.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return WrapErrorf(err, "opening source file '%s'", src)
	}
	defer in.Close()

	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return WrapErrorf(err, "creating destination file '%s'", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return WrapErrorf(err, "copying '%s' to '%s'", src, dst)
	}
	return out.Sync()
}
