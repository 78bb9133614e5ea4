package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning matches every AlreadyRunningError.
var ErrAlreadyRunning = errors.New("daemon is already running")

// AlreadyRunningError reports the live process holding the PID file.
type AlreadyRunningError struct {
	PID int
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("daemon is already running (PID %d)", e.PID)
}

func (e *AlreadyRunningError) Is(target error) bool {
	return target == ErrAlreadyRunning
}

// PIDFile enforces a single daemon instance per path
type PIDFile struct {
	path string
	pid  int
}

// New creates a PIDFile for path. Nothing is written until Acquire.
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location.
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current process ID. A file left behind by a dead
// process is replaced; a live owner yields an AlreadyRunningError.
func (p *PIDFile) Acquire() error {
	pid := os.Getpid()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(p.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d\n", pid)
			cerr := f.Close()
			if err := errors.Join(werr, cerr); err != nil {
				_ = os.Remove(p.path)
				return fmt.Errorf("failed to write PID file: %w", err)
			}
			p.pid = pid
			return nil
		}
		if !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to create PID file: %w", err)
		}

		owner, err := ReadPID(p.path)
		if err == nil && owner != pid && IsRunning(owner) {
			return &AlreadyRunningError{PID: owner}
		}
		// stale or unreadable
		if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove stale PID file: %w", err)
		}
	}
	return fmt.Errorf("failed to acquire PID file %s", p.path)
}

// Release removes the PID file if this process still owns it.
func (p *PIDFile) Release() error {
	if p.pid == 0 {
		return nil
	}
	owner, err := ReadPID(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err == nil && owner != p.pid {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	p.pid = 0
	return nil
}

// ReadPID returns the process ID stored at path.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file %s: %w", path, err)
	}
	return pid, nil
}

// IsRunning reports whether a process with the given PID exists.
func IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// signal 0 only checks for existence
	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		return true
	default:
		return false
	}
}
