package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile records the pid of a running daemon.
type PIDFile string

// Read returns the recorded pid. A missing file wraps os.ErrNotExist.
func (p PIDFile) Read() (int, error) {
	data, err := os.ReadFile(string(p)) //nolint:gosec // pid path is configured by the local user
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", p)
	}
	return pid, nil
}

// Claim writes the current pid, failing if another live daemon holds the file.
// A stale file is replaced.
func (p PIDFile) Claim() error {
	if pid, err := p.Read(); err == nil {
		if Alive(pid) {
			return fmt.Errorf("daemon already running (pid %d)", pid)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(string(p)), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	return os.WriteFile(string(p), []byte(strconv.Itoa(os.Getpid())+"\n"), 0o600)
}

// Release removes the file.
func (p PIDFile) Release() { _ = os.Remove(string(p)) }

// Alive reports whether pid names a running process.
func Alive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
