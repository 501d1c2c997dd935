package diagnostics

import (
	"context"

	"codeberg.org/mutker/appdiag/internal/errors"
	"codeberg.org/mutker/appdiag/internal/sysinfo"
)

type fact struct {
	label string
	read  func(ctx context.Context) (any, error)
}

func read[T any](fn func(context.Context) (T, error)) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

func megabytes(fn func(context.Context) (uint64, error)) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		bytes, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return sysinfo.ToMegabytes(bytes), nil
	}
}

func (r *Reporter) systemFacts() []fact {
	s := r.deps.System

	return []fact{
		{"Network Info", read(s.NetworkInterfaces)},
		{"CPU Info", read(s.CPUs)},
		{"Operating System", read(s.Type)},
		{"Platform", read(s.Platform)},
		{"Architecture", read(s.Arch)},
		{"Hostname", read(s.Hostname)},
		{"Temp Directory", read(s.TempDir)},
		{"Home Directory", read(s.HomeDir)},
		{"Total Memory (MB)", megabytes(s.TotalMemory)},
		{"Free Memory (MB)", megabytes(s.FreeMemory)},
		{"Load Average", read(s.LoadAverage)},
		{"Uptime", read(s.Uptime)},
		{"User Info (OS Returned)", read(s.UserInfo)},
	}
}

// SystemStats logs host operating system facts. A failing read stops the
// report at that fact.
func (r *Reporter) SystemStats(ctx context.Context) error {
	errFactory := errors.New()

	r.info(systemBanner)

	for _, f := range r.systemFacts() {
		value, err := f.read(ctx)
		if err != nil {
			return errFactory.Wrap(ErrSystemStats, err)
		}

		line, err := formatFact(f.label, value)
		if err != nil {
			return errFactory.Wrap(ErrSystemStats, err)
		}
		r.info(line)
	}

	return nil
}
