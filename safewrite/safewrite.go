// Package safewrite persists rewritten files without ever leaving the
// target path truncated or half-written: new bytes go to a temporary file in
// the same directory, which is then renamed over the original.
package safewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Mode int

const (
	// DryRun performs no filesystem mutation.
	DryRun Mode = iota
	// Backup renames the original to a timestamped sibling before the new
	// bytes take its place.
	Backup
	// InPlace replaces the original without keeping a copy. The write is
	// still atomic via the temp-and-rename sequence.
	InPlace
)

func (m Mode) String() string {
	switch m {
	case DryRun:
		return "dry-run"
	case Backup:
		return "backup"
	case InPlace:
		return "in-place"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// BackupName returns the sibling path the original is renamed to in Backup
// mode: {name}.{YYYYMMDDHHMMSS}{ext}.
func BackupName(path string, now time.Time) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s.%s%s", name, now.Format("20060102150405"), ext))
}

// Persist writes newBytes to path under the given mode. On any failure the
// original file remains reachable at its path.
func Persist(path string, newBytes []byte, mode Mode) error {
	if mode == DryRun {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "Persist error: stat original")
	}

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := writeAndSync(tmp, newBytes, info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "Persist error: write temp file")
	}

	switch mode {
	case Backup:
		backup := BackupName(path, time.Now())
		if err := os.Rename(path, backup); err != nil {
			_ = os.Remove(tmp)
			return errors.Wrap(err, "Persist error: rename original to backup")
		}
		if err := os.Rename(tmp, path); err != nil {
			// put the original back so the target path stays intact
			_ = os.Rename(backup, path)
			_ = os.Remove(tmp)
			return errors.Wrap(err, "Persist error: rename temp over original")
		}
		return nil

	case InPlace:
		if err := os.Rename(tmp, path); err != nil {
			_ = os.Remove(tmp)
			return errors.Wrap(err, "Persist error: rename temp over original")
		}
		return nil
	}

	_ = os.Remove(tmp)
	return errors.Errorf("Persist error: unknown mode %v", mode)
}

func writeAndSync(path string, bs []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(bs); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
