package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/appdiag/internal/errors"
)

func readPID(t *testing.T, path string) int {
	t.Helper()

	bytes, err := os.ReadFile(path)
	require.NoError(t, err)
	pid, err := strconv.Atoi(string(bytes))
	require.NoError(t, err)
	return pid
}

func TestAcquireAndRelease(t *testing.T) {
	f := New(t.TempDir())

	require.NoError(t, f.Acquire())
	assert.Equal(t, os.Getpid(), readPID(t, f.Path()))

	// Re-acquiring our own file is allowed
	require.NoError(t, f.Acquire())

	require.NoError(t, f.Release())
	_, err := os.Stat(f.Path())
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, f.Release())
}

func TestAcquireAlreadyRunning(t *testing.T) {
	f := New(t.TempDir())
	owner := os.Getppid()
	require.NoError(t, os.WriteFile(f.Path(), []byte(strconv.Itoa(owner)), 0o600))

	err := f.Acquire()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))

	pid, ok := RunningPID(err)
	require.True(t, ok)
	assert.Equal(t, owner, pid)

	// Release leaves a file owned by another process alone
	require.NoError(t, f.Release())
	assert.Equal(t, owner, readPID(t, f.Path()))
}

func TestAcquireStaleFile(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"garbage", "not-a-pid"},
		{"empty", ""},
		{"negative", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(t.TempDir())
			require.NoError(t, os.WriteFile(f.Path(), []byte(tt.contents), 0o600))

			require.NoError(t, f.Acquire())
			assert.Equal(t, os.Getpid(), readPID(t, f.Path()))
		})
	}
}

func TestRunningPIDOtherErrors(t *testing.T) {
	_, ok := RunningPID(errors.New().New(errors.ErrInternal))
	assert.False(t, ok)

	_, ok = RunningPID(nil)
	assert.False(t, ok)
}

func TestNewDefaultsToTempDir(t *testing.T) {
	assert.Equal(t, os.TempDir(), filepath.Dir(New("").Path()))
}
