// Package lock serializes tramy commands that write into the same project.
package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
)

// LockInfo contains the metadata stored in a lock file.
type LockInfo struct {
	PID       int       `json:"pid"`
	CreatedAt time.Time `json:"created_at"`
	Cmd       string    `json:"cmd,omitempty"`
}

// ErrLocked indicates a non-stale lock is held by someone else.
type ErrLocked struct {
	Info *LockInfo // nil if lock file is unreadable
	Path string
}

func (e *ErrLocked) Error() string {
	if e.Info != nil {
		return fmt.Sprintf("project is locked by pid %d (%s) since %s (lock file: %s)",
			e.Info.PID, e.Info.Cmd, e.Info.CreatedAt.Format(time.RFC3339), e.Path)
	}
	return fmt.Sprintf("project is locked (lock file: %s)", e.Path)
}

// ProjectLock guards a single lock file, usually .tramy/setup.lock.
type ProjectLock struct {
	FS         afero.Fs
	Path       string
	StaleAfter time.Duration
	Now        func() time.Time
	IsPIDAlive func(pid int) bool
}

// New returns a ProjectLock on path with defaults:
// - StaleAfter: 10m
// - Now: time.Now
// - IsPIDAlive: platform impl (best-effort)
func New(fsys afero.Fs, path string) ProjectLock {
	return ProjectLock{
		FS:         fsys,
		Path:       path,
		StaleAfter: 10 * time.Minute,
		Now:        time.Now,
		IsPIDAlive: isPIDAlive,
	}
}

// Lock acquires the lock and returns an unlock function.
// - cmd is stored in the lock file for debugging (may be empty).
// - if already locked and not stale: returns *ErrLocked.
func (l ProjectLock) Lock(cmd string) (unlock func() error, err error) {
	const maxRetries = 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := l.FS.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create lock directory: %w", err)
		}

		// O_EXCL makes acquisition atomic
		f, err := l.FS.OpenFile(l.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			return l.acquired(f, cmd)
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		info, readErr := l.readLockInfo()
		if readErr != nil {
			// Unreadable lock: fall back to its mtime
			stat, statErr := l.FS.Stat(l.Path)
			if statErr != nil {
				return nil, &ErrLocked{Path: l.Path}
			}
			if l.Now().Sub(stat.ModTime()) <= l.StaleAfter {
				return nil, &ErrLocked{Path: l.Path}
			}
			if removeErr := l.FS.Remove(l.Path); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, &ErrLocked{Path: l.Path}
			}
			continue
		}

		if l.isStale(info) {
			if removeErr := l.FS.Remove(l.Path); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, &ErrLocked{Info: info, Path: l.Path}
			}
			continue
		}

		return nil, &ErrLocked{Info: info, Path: l.Path}
	}

	return nil, &ErrLocked{Path: l.Path}
}

func (l ProjectLock) acquired(f afero.File, cmd string) (func() error, error) {
	info := LockInfo{
		PID:       os.Getpid(),
		CreatedAt: l.Now(),
		Cmd:       cmd,
	}
	data, _ := json.Marshal(info)
	if _, err := f.Write(data); err != nil {
		f.Close()
		l.FS.Remove(l.Path)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}
	if err := f.Close(); err != nil {
		l.FS.Remove(l.Path)
		return nil, fmt.Errorf("failed to close lock file: %w", err)
	}

	return func() error {
		err := l.FS.Remove(l.Path)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}, nil
}

func (l ProjectLock) readLockInfo() (*LockInfo, error) {
	data, err := afero.ReadFile(l.FS, l.Path)
	if err != nil {
		return nil, err
	}
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// isStale reports a lock whose owner is gone or which outlived StaleAfter.
func (l ProjectLock) isStale(info *LockInfo) bool {
	if !l.IsPIDAlive(info.PID) {
		return true
	}
	return l.Now().Sub(info.CreatedAt) > l.StaleAfter
}

// isPIDAlive sends signal 0, which checks existence without delivering
// anything.
func isPIDAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM: exists, owned by someone else
	return errors.Is(err, syscall.EPERM)
}
