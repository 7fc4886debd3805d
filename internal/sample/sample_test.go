package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleData_Consistent(t *testing.T) {
	projects := Projects()
	tickets := Tickets()
	require.NotEmpty(t, projects)
	require.NotEmpty(t, tickets)

	ids := make(map[string]bool)
	for _, p := range projects {
		assert.False(t, ids[p.ID], "duplicate project id %s", p.ID)
		ids[p.ID] = true
		assert.True(t, p.Status.Valid())
		assert.False(t, p.UpdatedAt.Before(p.CreatedAt))
	}
	for _, tk := range tickets {
		assert.True(t, ids[tk.ProjectID], "ticket %s references unknown project", tk.ID)
		assert.True(t, tk.Status.Valid())
		assert.True(t, tk.Priority.Valid())
		assert.False(t, tk.UpdatedAt.Before(tk.CreatedAt))
	}
}

func TestSampleData_FreshCopies(t *testing.T) {
	a := Projects()
	a[0].Name = "changed"
	b := Projects()
	assert.NotEqual(t, "changed", b[0].Name)
}
