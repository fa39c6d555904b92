// Package archive builds single-file zip deployment packages for Lambda
// functions. The archive holds exactly one source file, written first to a
// working directory and then zipped alongside it.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Archive is a deployment package on disk: the plain source file and the
// zip wrapping it.
type Archive struct {
	srcPath string
	zipPath string
}

// Build writes source to dir under name and zips it as the only entry.
// The zip keeps the bare file name regardless of dir, matching the flat
// layout Lambda expects for a single-file package.
func Build(dir, name string, source []byte) (*Archive, error) {
	srcPath := filepath.Join(dir, name)
	zipPath := filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+".zip")

	if err := os.WriteFile(srcPath, source, 0o600); err != nil {
		return nil, fmt.Errorf("writing source file: %w", err)
	}

	f, err := os.Create(zipPath)
	if err != nil {
		return nil, fmt.Errorf("creating archive file: %w", err)
	}

	zw := zip.NewWriter(f)

	w, err := zw.Create(name)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("creating archive entry: %w", err), f.Close())
	}
	if _, err := w.Write(source); err != nil {
		return nil, errors.Join(fmt.Errorf("writing archive entry: %w", err), f.Close())
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Join(fmt.Errorf("closing archive: %w", err), f.Close())
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing archive file: %w", err)
	}

	return &Archive{srcPath: srcPath, zipPath: zipPath}, nil
}

// Path returns the location of the zip on disk.
func (a *Archive) Path() string {
	return a.zipPath
}

// Bytes reads back the zipped package.
func (a *Archive) Bytes() ([]byte, error) {
	b, err := os.ReadFile(a.zipPath)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	return b, nil
}

// Remove deletes both the source file and the zip.
func (a *Archive) Remove() error {
	return errors.Join(os.Remove(a.srcPath), os.Remove(a.zipPath))
}
