package profiling_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/profiling"
)

func TestStart_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	p, err := profiling.Start(profiling.Config{}, "internal-linking", "test", logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NoError(t, p.Stop())
}
