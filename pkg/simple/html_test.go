package simple_test

import (
	"testing"

	"github.com/jlrickert/pickup/pkg/simple"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	d := simple.NewDocument("Links for foo")
	d.Insert("foo-1.0-py3-none-any.whl", "https://files.example.org/foo-1.0-py3-none-any.whl#sha256=abc")
	d.Insert("foo-1.0.tar.gz", "./foo-1.0.tar.gz")
	d.Insert("foo-2.0rc1-py3-none-any.whl", "./foo-2.0rc1-py3-none-any.whl")
	d.Remove("foo-1.0.tar.gz")
	d.Insert("foo-1.0.zip", "./foo-1.0.zip")

	got, err := simple.Decode(d.Encode())
	require.NoError(t, err)

	assert.Equal(t, d.Title(), got.Title())
	assert.Equal(t, d.Entries(), got.Entries())
	assert.Equal(t, d.Map(), got.Map())

	// A second round trip is byte stable.
	assert.Equal(t, d.Encode(), got.Encode())
}

func TestDecodeEmptyInput(t *testing.T) {
	t.Parallel()

	d, err := simple.Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())

	d, err = simple.Decode([]byte("  \n\t"))
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestDecodeRealWorldPage(t *testing.T) {
	t.Parallel()

	// Shape of a page served by the PyPI simple API: attributes we do not
	// track, anchors split over lines, duplicate entries.
	page := `<!DOCTYPE html>
<html>
  <head><meta name="pypi:repository-version" content="1.1"><title>Links for foo</title></head>
  <body>
    <h1>Links for foo</h1>
    <a href="https://files.example.org/foo-1.0.tar.gz#sha256=aa" data-requires-python="&gt;=3.8">
      foo-1.0.tar.gz
    </a><br/>
    <a href="https://files.example.org/foo-1.0-py3-none-any.whl#sha256=bb">foo-1.0-py3-none-any.whl</a><br/>
    <a href="./dup">foo-1.0.tar.gz</a>
  </body>
</html>`

	d, err := simple.Decode([]byte(page))
	require.NoError(t, err)

	assert.Equal(t, "Links for foo", d.Title())
	require.Equal(t, 2, d.Len())

	// First occurrence wins for duplicated text.
	assert.Equal(t, "https://files.example.org/foo-1.0.tar.gz#sha256=aa", d.Href("foo-1.0.tar.gz"))
	assert.Equal(t, []simple.Entry{
		{Text: "foo-1.0.tar.gz", Href: "https://files.example.org/foo-1.0.tar.gz#sha256=aa"},
		{Text: "foo-1.0-py3-none-any.whl", Href: "https://files.example.org/foo-1.0-py3-none-any.whl#sha256=bb"},
	}, d.Entries())
}

func TestEncodeEscapesSpecials(t *testing.T) {
	t.Parallel()

	d := simple.NewDocument(`a <&> title`)
	d.Insert(`x<&>"y`, `./x?a=1&b=2`)

	got, err := simple.Decode(d.Encode())
	require.NoError(t, err)
	assert.Equal(t, d.Title(), got.Title())
	assert.Equal(t, d.Map(), got.Map())
}

func TestRoundTripPreservesOddHrefBytes(t *testing.T) {
	t.Parallel()

	// Bytes that survive HTML escaping untouched but would be mangled by an
	// extra string-literal escaping pass.
	d := simple.NewDocument("")
	d.Insert("foo-1.0.zip", `./sub\foo-1.0.zip`)
	d.Insert("bar-1.0.tar.gz", "./a\tb/bar-1.0.tar.gz")
	d.Insert("baz-1.0.tar.gz", `./'single'/baz-1.0.tar.gz`)

	got, err := simple.Decode(d.Encode())
	require.NoError(t, err)
	assert.Equal(t, d.Map(), got.Map())
	assert.Equal(t, `./sub\foo-1.0.zip`, got.Href("foo-1.0.zip"))
}
