package diagnostics

import (
	"context"
	"fmt"

	"codeberg.org/mutker/appdiag/internal/errors"
)

// ProcessInfo logs static process metadata
func (r *Reporter) ProcessInfo(ctx context.Context) error {
	info, err := r.deps.Process.Info(ctx)
	if err != nil {
		return errors.New().Wrap(ErrProcessInfo, err)
	}

	r.info(fmt.Sprintf("Is default app? %t", info.DefaultApp))
	r.info(fmt.Sprintf("Is Mac Store app? %t", info.MAS))
	r.info(fmt.Sprintf("Is Windows Store app? %t", info.WindowsStore))
	r.info(fmt.Sprintf("Resources Path? %s", info.ResourcesPath))
	r.info(fmt.Sprintf("Sandboxed? %t", info.Sandboxed))
	r.info(fmt.Sprintf("Go Version? %s", info.GoVersion))
	r.info(fmt.Sprintf("App Version? %s", info.AppVersion))

	return nil
}
