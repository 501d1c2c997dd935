package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/appdiag/internal/errors"
)

const (
	pidFile = "appdiag.pid"
)

// File guards a single running instance with a PID file
type File struct {
	path string
}

// New returns a guard for the PID file in dir, or in the temp dir if dir is
// empty.
func New(dir string) *File {
	if dir == "" {
		dir = os.TempDir()
	}

	return &File{path: filepath.Join(dir, pidFile)}
}

func (f *File) Path() string {
	return f.path
}

// Acquire writes the current process ID to the PID file. If another live
// process holds the file, it returns ErrAlreadyRunning with that process's
// PID as data.
func (f *File) Acquire() error {
	errFactory := errors.New()

	owner, err := f.owner()
	if err != nil {
		return err
	}

	if owner > 0 && owner != os.Getpid() && alive(owner) {
		return errFactory.WithData(errors.ErrAlreadyRunning, owner)
	}

	if err := os.WriteFile(f.path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Release removes the PID file if this process owns it.
func (f *File) Release() error {
	errFactory := errors.New()

	owner, err := f.owner()
	if err != nil {
		return err
	}

	if owner != os.Getpid() {
		return nil
	}

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// owner returns the PID recorded in the file, or 0 if there is none. A file
// with unreadable contents is treated as stale.
func (f *File) owner() (int, error) {
	bytes, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.New().Wrap(errors.ErrInternal, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
	if err != nil || pid <= 0 {
		return 0, nil
	}

	return pid, nil
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}

// RunningPID extracts the PID of the running instance from an
// ErrAlreadyRunning error.
func RunningPID(err error) (int, bool) {
	var appErr errors.Error
	if !errors.As(err, &appErr) || appErr.Code() != errors.ErrAlreadyRunning {
		return 0, false
	}

	pid, ok := appErr.GetData().(int)
	return pid, ok
}
