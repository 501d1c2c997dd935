package metrics_test

import (
	"context"
	"math"
	"os"
	"testing"

	"codeberg.org/mutker/appdiag/internal/errors"
	"codeberg.org/mutker/appdiag/internal/logger"
	"codeberg.org/mutker/appdiag/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectCurrentProcess(t *testing.T) {
	c := metrics.NewCollector(logger.Default())

	got, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, got)

	assert.Equal(t, int32(os.Getpid()), got[0].PID)
	assert.Equal(t, metrics.TypeMain, got[0].Type)
	assert.NotEmpty(t, got[0].Name)
	assert.GreaterOrEqual(t, got[0].CPU.PercentCPUUsage, 0.0)

	for _, m := range got[1:] {
		assert.Equal(t, metrics.TypeChild, m.Type)
	}
}

func TestCollectMissingProcess(t *testing.T) {
	c := metrics.NewCollectorForPID(math.MaxInt32, logger.Default())

	_, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, metrics.ErrProcessNotFound))
}
