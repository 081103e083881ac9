package pipeline

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/datasprout/pkg/errors"
)

// ZipDir writes every regular file below dir into a zip archive on w.
// Entry names are slash-separated paths relative to dir, in lexical order.
func ZipDir(w io.Writer, dir string) error {
	zw := zip.NewWriter(w)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		hdr.Method = zip.Deflate

		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(fw, f)
		return err
	})
	if err != nil {
		_ = zw.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "zip %s", dir)
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "zip %s", dir)
	}
	return nil
}

// ZipFile writes the archive of dir to path.
func ZipFile(path, dir string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := ZipDir(f, dir); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
