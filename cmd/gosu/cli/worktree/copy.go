package worktree

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// IgnoredNames are copied into a new worktree wherever they appear in the
// main checkout. They are normally git-ignored, so a fresh checkout lacks them.
var IgnoredNames = []string{
	"node_modules",
	".pnpm-store",
	".env",
	"go.work",
	"go.work.sum",
	"vendor",
	".venv",
	".ruff_cache",
	".mypy_cache",
}

// copyFile copies a regular file, keeping its permission bits and mtime.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // src comes from walking our own checkout
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// copyTree replaces dst with a copy of the directory src. Symlinks are
// recreated as symlinks, not followed.
func copyTree(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			return copyFile(path, target)
		default:
			// sockets, devices and pipes are skipped
			return nil
		}
	})
}

// copyPath copies a file or a whole directory from src to dst.
func copyPath(src, dst string) (isDir bool, err error) {
	info, err := os.Lstat(src)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return true, copyTree(src, dst)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return false, err
		}
		link, err := os.Readlink(src)
		if err != nil {
			return false, err
		}
		_ = os.Remove(dst)
		return false, os.Symlink(link, dst)
	}
	return false, copyFile(src, dst)
}

// CopyResult tallies a bulk copy. Failures are per-path and never abort the run.
type CopyResult struct {
	Copied []string
	Failed map[string]error
}

func (r *CopyResult) fail(rel string, err error) {
	if r.Failed == nil {
		r.Failed = make(map[string]error)
	}
	r.Failed[rel] = err
}

// CopyIgnored copies every IgnoredNames entry found under root into the
// same relative location under dst. Matching directories are copied whole
// and not descended into; .git and dst itself are never walked.
func CopyIgnored(root, dst string) (CopyResult, error) {
	names := make(map[string]bool, len(IgnoredNames))
	for _, n := range IgnoredNames {
		names[n] = true
	}

	var result CopyResult
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// unreadable subtree
			return nil
		}
		if path == root {
			return nil
		}
		if d.IsDir() && (d.Name() == ".git" || isWithin(path, dst)) {
			return filepath.SkipDir
		}
		if !names[d.Name()] {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil //nolint:nilerr // path is always under root
		}
		if _, cpErr := copyPath(path, filepath.Join(dst, rel)); cpErr != nil {
			result.fail(rel, cpErr)
		} else {
			result.Copied = append(result.Copied, rel)
		}
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("walking %s: %w", root, err)
	}
	return result, nil
}

// CopyFiles copies each repository-relative path from root to dst, skipping
// paths that no longer exist in root (deleted files).
func CopyFiles(root, dst string, rels []string) CopyResult {
	var result CopyResult
	for _, rel := range rels {
		src := filepath.Join(root, rel)
		if _, err := os.Lstat(src); err != nil {
			continue
		}
		if _, err := copyPath(src, filepath.Join(dst, rel)); err != nil {
			result.fail(rel, err)
			continue
		}
		result.Copied = append(result.Copied, rel)
	}
	return result
}
