package simple_test

import (
	"testing"

	"github.com/jlrickert/pickup/pkg/simple"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertIsIdempotent(t *testing.T) {
	t.Parallel()

	d := simple.NewDocument("Links for foo")

	existed := d.Insert("foo-1.0.whl", "./foo-1.0.whl")
	assert.False(t, existed)
	require.Equal(t, 1, d.Len())

	existed = d.Insert("foo-1.1.whl", "./foo-1.1.whl")
	assert.False(t, existed)

	// Re-inserting an existing key must not duplicate, reorder, or update.
	existed = d.Insert("foo-1.0.whl", "./somewhere-else")
	assert.True(t, existed)
	require.Equal(t, 2, d.Len())
	assert.Equal(t, "./foo-1.0.whl", d.Href("foo-1.0.whl"))

	want := []simple.Entry{
		{Text: "foo-1.0.whl", Href: "./foo-1.0.whl"},
		{Text: "foo-1.1.whl", Href: "./foo-1.1.whl"},
	}
	assert.Equal(t, want, d.Entries())
}

func TestRemovePreservesOrder(t *testing.T) {
	t.Parallel()

	d := simple.NewDocument("")
	d.Insert("a", "./a")
	d.Insert("b", "./b")
	d.Insert("c", "./c")

	existed := d.Remove("b")
	assert.True(t, existed)
	assert.False(t, d.Remove("b"))

	want := []simple.Entry{
		{Text: "a", Href: "./a"},
		{Text: "c", Href: "./c"},
	}
	assert.Equal(t, want, d.Entries())

	// Keys behind the removed entry must still resolve.
	assert.True(t, d.Has("c"))
	assert.Equal(t, "./c", d.Href("c"))

	d.Insert("b", "./b2")
	assert.Equal(t, "./b2", d.Href("b"))
	assert.Equal(t, 3, d.Len())
}

func TestMapMatchesEntries(t *testing.T) {
	t.Parallel()

	d := simple.NewDocument("")
	d.Insert("x", "./x")
	d.Insert("y", "./y")

	assert.Equal(t, map[string]string{"x": "./x", "y": "./y"}, d.Map())
}
