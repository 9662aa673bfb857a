package envvars

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotsEnvironment(t *testing.T) {
	require.NoError(t, os.Setenv("FLOWGRAPH_ENVVARS_TEST", "present"))
	defer os.Unsetenv("FLOWGRAPH_ENVVARS_TEST")

	fn := New()
	result, err := fn("ignored payload")
	require.NoError(t, err)

	env := result.(map[string]string)
	assert.Equal(t, "present", env["FLOWGRAPH_ENVVARS_TEST"])
}
