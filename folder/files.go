package folder

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// TrashDir is the folder, next to the image, receiving trashed files.
const TrashDir = ".trash"

// Buckets are numbered from 0 to NumBuckets-1.
const NumBuckets = 10

// ErrInvalidBucket is returned for bucket numbers outside [0, NumBuckets).
var ErrInvalidBucket = errors.New("folder: invalid bucket")

// Trash moves path into the trash folder of its directory and returns its
// new location.
func Trash(path string, opts ...func(*Options)) (string, error) {
	o := newOptions(opts)
	dir, name := filepath.Split(path)
	trash := filepath.Join(dir, TrashDir)

	if err := os.MkdirAll(trash, 0o755); err != nil {
		o.Logger.Error("could not create trash folder", "dir", trash, "error", err)
		return "", errors.Wrap(err, "could not create trash folder")
	}

	dst := filepath.Join(trash, name)
	if err := os.Rename(path, dst); err != nil {
		o.Logger.Error("could not trash file", "path", path, "error", err)
		return "", errors.Wrap(err, "could not trash file")
	}
	o.Logger.Info("file trashed", "path", path, "trash", dst)
	return dst, nil
}

// Purge deletes trashed files permanently and removes trash folders left
// empty. It goes on after a failure and returns the first error.
func Purge(trashed []string, opts ...func(*Options)) error {
	o := newOptions(opts)

	var first error
	fail := func(err error, msg string, args ...any) {
		o.Logger.Error(msg, append(args, "error", err)...)
		if first == nil {
			first = errors.Wrap(err, msg)
		}
	}

	for _, path := range trashed {
		if err := os.Remove(path); err != nil {
			fail(err, "could not delete file", "path", path)
			continue
		}
		o.Logger.Info("file deleted", "path", path)

		trash := filepath.Dir(path)
		entries, err := os.ReadDir(trash)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(trash); err != nil {
			fail(err, "could not remove trash folder", "dir", trash)
		}
	}
	return first
}

// CopyToBucket copies path into the bucket folder n of its directory and
// returns the copy location.
func CopyToBucket(path string, n int, opts ...func(*Options)) (string, error) {
	o := newOptions(opts)
	if n < 0 || n >= NumBuckets {
		return "", errors.Wrapf(ErrInvalidBucket, "%d", n)
	}

	dir, name := filepath.Split(path)
	bucket := filepath.Join(dir, strconv.Itoa(n))
	if err := os.MkdirAll(bucket, 0o755); err != nil {
		o.Logger.Error("could not create bucket", "dir", bucket, "error", err)
		return "", errors.Wrap(err, "could not create bucket")
	}

	dst := filepath.Join(bucket, name)
	if err := copyFile(path, dst); err != nil {
		o.Logger.Error("could not copy file to bucket", "path", path, "bucket", n, "error", err)
		return "", err
	}
	o.Logger.Info("file copied to bucket", "path", path, "copy", dst)
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "could not open source")
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return errors.Wrap(err, "could not stat source")
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return errors.Wrap(err, "could not create copy")
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(err, "could not copy")
	}
	return errors.Wrap(out.Close(), "could not close copy")
}
