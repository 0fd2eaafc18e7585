package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateColumnsLayout(t *testing.T) {
	now := time.Now().UTC()
	for _, n := range []int{3, 4, 5, 8} {
		cols, err := generateColumns(n, now)
		require.NoError(t, err)
		require.Len(t, cols, n)

		assert.Equal(t, RoleInitial, cols[0].Role)
		assert.Equal(t, "Initial", cols[0].Name)
		assert.Equal(t, RoleFinished, cols[n-2].Role)
		assert.Equal(t, "Finished", cols[n-2].Name)
		assert.Equal(t, RoleCancelled, cols[n-1].Role)
		assert.Equal(t, "Cancelled", cols[n-1].Name)

		pending := 0
		for i, c := range cols {
			assert.Equal(t, i, c.Pos)
			assert.Equal(t, now, c.CreatedAt)
			assert.Equal(t, now, c.UpdatedAt)
			if c.Role == RolePending {
				assert.Equal(t, "Pending", c.Name)
				pending++
			}
		}
		assert.Equal(t, n-3, pending, "n=%d", n)
	}
}

func TestGenerateColumnsTooFew(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 2} {
		cols, err := generateColumns(n, time.Now())
		assert.ErrorIs(t, err, ErrTooFewColumns, "n=%d", n)
		assert.Nil(t, cols)
	}
}

func TestColumnLookups(t *testing.T) {
	cols := makeColumns(t, 4)

	c, ok := columnByID(cols, cols[2].ID)
	require.True(t, ok)
	assert.Equal(t, RoleFinished, c.Role)

	c, ok = columnAtPos(cols, 3)
	require.True(t, ok)
	assert.Equal(t, RoleCancelled, c.Role)

	c, ok = columnByRole(cols, RoleInitial)
	require.True(t, ok)
	assert.Equal(t, 0, c.Pos)

	_, ok = columnByID(cols, 999)
	assert.False(t, ok)
	_, ok = columnAtPos(cols, 4)
	assert.False(t, ok)

	assert.Equal(t, RolePending, roleOf(cols, cols[1].ID))
	assert.Equal(t, ColumnRole(""), roleOf(cols, 999))
}
