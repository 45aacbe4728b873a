package jobs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/koompi/file-manager/internal/constants"
	apperrors "github.com/koompi/file-manager/internal/errors"
	"github.com/koompi/file-manager/internal/logging"
)

const copyBufferSize = 1 << 20 // 1 MiB

// ValidateName checks a new base name for an item.
func ValidateName(name string) error {
	switch {
	case name == "":
		return apperrors.NewInvalidNameError(name, "name is empty")
	case name == "." || name == "..":
		return apperrors.NewInvalidNameError(name, "name is reserved")
	case strings.ContainsAny(name, `/\`):
		return apperrors.NewInvalidNameError(name, "name contains a path separator")
	}
	return nil
}

// RenameItem renames path within its directory and returns the new path.
func RenameItem(path, newName string) (string, error) {
	if err := ValidateName(newName); err != nil {
		return "", err
	}
	if _, err := os.Lstat(path); err != nil {
		return "", notFoundOr("rename", path, err)
	}
	dst := filepath.Join(filepath.Dir(path), newName)
	if exists(dst) {
		return "", apperrors.NewTargetExistsError("rename", dst)
	}
	if err := os.Rename(path, dst); err != nil {
		return "", wrapPath("rename", path, err)
	}
	logging.Info("renamed item", logging.String("from", path), logging.String("to", dst))
	return dst, nil
}

// DeleteItem removes path. Directories are removed recursively and a
// symbolic link is removed without touching its target.
func DeleteItem(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		return notFoundOr("delete", path, err)
	}
	if fi.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return wrapPath("delete", path, err)
	}
	logging.Info("deleted item", logging.String("path", path))
	return nil
}

// CopyItem copies src into destDir under its base name and returns the
// destination path. An existing destination is never overwritten.
func CopyItem(ctx context.Context, src, destDir string) (string, error) {
	fi, err := os.Lstat(src)
	if err != nil {
		return "", notFoundOr("copy", src, err)
	}
	dst := filepath.Join(destDir, filepath.Base(src))
	if exists(dst) {
		return "", apperrors.NewTargetExistsError("copy", dst)
	}
	if fi.IsDir() && within(destDir, src) {
		return "", wrapPath("copy", dst, errors.New("cannot copy a directory into itself"))
	}
	if err := copyPath(ctx, src, dst, fi); err != nil {
		if fi.IsDir() {
			// dst did not exist before, so everything under it is ours
			if rerr := os.RemoveAll(dst); rerr != nil {
				logging.Warn("partial copy left behind", logging.String("path", dst), logging.Err(rerr))
			}
		}
		return "", err
	}
	logging.Info("copied item", logging.String("from", src), logging.String("to", dst))
	return dst, nil
}

// MoveItem moves src into destDir with a rename. Moves across devices are
// reported as CrossDeviceMove and never fall back to copy-and-delete.
func MoveItem(ctx context.Context, src, destDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fi, err := os.Lstat(src)
	if err != nil {
		return "", notFoundOr("move", src, err)
	}
	dst := filepath.Join(destDir, filepath.Base(src))
	if exists(dst) {
		return "", apperrors.NewTargetExistsError("move", dst)
	}
	if fi.IsDir() && within(destDir, src) {
		return "", wrapPath("move", dst, errors.New("cannot move a directory into itself"))
	}
	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			return "", apperrors.NewCrossDeviceMoveError(src, err)
		}
		return "", wrapPath("move", src, err)
	}
	logging.Info("moved item", logging.String("from", src), logging.String("to", dst))
	return dst, nil
}

func copyPath(ctx context.Context, src, dst string, fi os.FileInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch {
	case fi.IsDir():
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return wrapPath("copy", dst, err)
		}
		_ = os.Chmod(dst, fi.Mode().Perm())
		entries, err := os.ReadDir(src)
		if err != nil {
			return wrapPath("copy", src, err)
		}
		for _, e := range entries {
			child := filepath.Join(src, e.Name())
			cfi, err := os.Lstat(child)
			if err != nil {
				return wrapPath("copy", child, err)
			}
			if err := copyPath(ctx, child, filepath.Join(dst, e.Name()), cfi); err != nil {
				return err
			}
		}
		return nil
	case fi.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return wrapPath("copy", src, err)
		}
		if err := os.Symlink(target, dst); err != nil {
			return wrapPath("copy", dst, err)
		}
		return nil
	default:
		return copyFile(ctx, src, dst, fi.Mode())
	}
}

// copyFile writes into a sibling ".part" file and renames it into place.
func copyFile(ctx context.Context, src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return wrapPath("copy", src, err)
	}
	defer in.Close()

	tmp := dst + constants.PartialCopySuffix
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return wrapPath("copy", tmp, err)
	}
	fail := func(p string, err error) error {
		out.Close()
		os.Remove(tmp)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return wrapPath("copy", p, err)
	}

	buf := make([]byte, copyBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return fail(tmp, err)
		}
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return fail(tmp, werr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fail(src, rerr)
		}
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return wrapPath("copy", tmp, err)
	}
	if err := os.Chmod(tmp, mode.Perm()); err != nil {
		os.Remove(tmp)
		return wrapPath("copy", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return wrapPath("copy", dst, err)
	}
	return nil
}

func exists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

// within reports whether dir is root or below it.
func within(dir, root string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func notFoundOr(op, path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return apperrors.NewItemNotFoundError(op, path)
	}
	return wrapPath(op, path, err)
}

// wrapPath records the failing path so job failures can name it.
func wrapPath(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &os.PathError{Op: op, Path: path, Err: err}
}

// failingPath extracts the path an operation failed on.
func failingPath(err error) string {
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		return ae.Path
	}
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Path
	}
	return ""
}
