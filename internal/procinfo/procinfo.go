// Package procinfo reports static metadata about the running application
// process.
package procinfo

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"codeberg.org/mutker/appdiag/internal/errors"
)

const ErrExecutablePath = errors.ErrorCode("procinfo_executable_path_failed")

// Info is the static process metadata
type Info struct {
	DefaultApp    bool
	MAS           bool
	WindowsStore  bool
	ResourcesPath string
	Sandboxed     bool
	GoVersion     string
	AppVersion    string
}

// Options carries the packaging facts that only the build or deployment
// knows about
type Options struct {
	Version       string
	ResourcesPath string
	Sandboxed     bool
	MAS           bool
	WindowsStore  bool
}

type Reader struct {
	opts       Options
	executable func() (string, error)
}

func New(opts Options) *Reader {
	return &Reader{opts: opts, executable: os.Executable}
}

func (r *Reader) Info(_ context.Context) (Info, error) {
	exe, err := r.executable()
	if err != nil {
		return Info{}, errors.New().Wrap(ErrExecutablePath, err)
	}

	resources := r.opts.ResourcesPath
	if resources == "" {
		resources = filepath.Join(filepath.Dir(exe), "resources")
	}

	return Info{
		DefaultApp:    isDefaultApp(exe),
		MAS:           r.opts.MAS,
		WindowsStore:  r.opts.WindowsStore,
		ResourcesPath: resources,
		Sandboxed:     r.opts.Sandboxed,
		GoVersion:     runtime.Version(),
		AppVersion:    r.appVersion(),
	}, nil
}

// IsPackaged reports whether the application runs from a built binary
// rather than from a go run/go test build cache.
func (r *Reader) IsPackaged(_ context.Context) (bool, error) {
	exe, err := r.executable()
	if err != nil {
		return false, errors.New().Wrap(ErrExecutablePath, err)
	}

	return !isDefaultApp(exe), nil
}

func (r *Reader) appVersion() string {
	if r.opts.Version != "" {
		return r.opts.Version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}

	return "(devel)"
}

func isDefaultApp(exe string) bool {
	tmp := filepath.Clean(os.TempDir()) + string(filepath.Separator)
	return strings.HasPrefix(filepath.Clean(exe), tmp) &&
		strings.Contains(filepath.ToSlash(exe), "/go-build")
}
