package settings

import "codeberg.org/mutker/appdiag/internal/errors"

const (
	// File system permissions
	defaultDirPerm = 0o755
)

type Config struct {
	DBPath    string
	BackupDir string
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	return nil
}
