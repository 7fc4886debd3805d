package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusRun(t *testing.T) {
	testEnv(t)

	require.NoError(t, statusRun())
	out := stdout()
	assert.Contains(t, out, "3 projects, 4 tickets")
	assert.Contains(t, out, "1 active")
	assert.Contains(t, out, "$15,000 active")
	assert.Contains(t, out, "Mobile App")
	assert.Contains(t, out, "Data Migration")
}

func TestStatusRun_StatusFilter(t *testing.T) {
	testEnv(t)
	statusOnly = "on-hold"
	t.Cleanup(func() { statusOnly = "" })

	require.NoError(t, statusRun())
	out := stdout()
	assert.Contains(t, out, "Mobile App")
	assert.NotContains(t, out, "Data Migration")
}

func TestStatusRun_Empty(t *testing.T) {
	testEnv(t)
	for _, id := range []string{"proj-1", "proj-2", "proj-3"} {
		require.NoError(t, projectDeleteRun(id))
	}
	ui.Out.(interface{ Reset() }).Reset()

	require.NoError(t, statusRun())
	assert.Contains(t, stdout(), "No projects yet")
}

func TestRootRun(t *testing.T) {
	t.Run("shows the dashboard", func(t *testing.T) {
		testEnv(t)

		require.NoError(t, rootRun())
		assert.Contains(t, stdout(), "3 projects, 4 tickets")
	})

	t.Run("reports a broken backend", func(t *testing.T) {
		testEnv(t)
		viper.Set("backend", "ftp")

		err := rootRun()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown backend")
		assert.NotContains(t, stdout(), "Usage:")
	})
}
