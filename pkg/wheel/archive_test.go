package wheel_test

import (
	"testing"

	"github.com/jlrickert/pickup/pkg/simple"
	"github.com/jlrickert/pickup/pkg/wheel"
	"github.com/stretchr/testify/assert"
)

func docOf(entries ...string) *simple.Document {
	d := simple.NewDocument("Links for pkg")
	for _, e := range entries {
		d.Insert(e, "./"+e)
	}
	return d
}

func texts(d *simple.Document) []string {
	var out []string
	for _, e := range d.Entries() {
		out = append(out, e.Text)
	}
	return out
}

func TestReduceZipBeatsTarVariants(t *testing.T) {
	t.Parallel()

	f := mustCompile(t, wheel.Policy{}, allFlags)
	got := f.Reduce(docOf("pkg-1.0.zip", "pkg-1.0.tar.gz", "pkg-1.0.tar.bz2"))
	assert.Equal(t, []string{"pkg-1.0.zip"}, texts(got))

	// Zip wins regardless of where it appears in the document.
	got = f.Reduce(docOf("pkg-1.0.tar.gz", "pkg-1.0.tar.bz2", "pkg-1.0.zip"))
	assert.Equal(t, []string{"pkg-1.0.zip"}, texts(got))
}

func TestReduceFirstTarVariantWins(t *testing.T) {
	t.Parallel()

	f := mustCompile(t, wheel.Policy{}, allFlags)
	got := f.Reduce(docOf("pkg-1.0.tar.bz2", "pkg-1.0.tar.gz", "pkg-1.0.tar"))
	assert.Equal(t, []string{"pkg-1.0.tar.bz2"}, texts(got))
}

func TestReduceArchiveSuppressedByWheel(t *testing.T) {
	t.Parallel()

	f := mustCompile(t, wheel.Policy{}, allFlags)
	got := f.Reduce(docOf(
		"pkg-1.0-py3-none-any.whl",
		"pkg-1.0.zip",
		"pkg-2.0.tar.gz",
	))
	assert.Equal(t, []string{"pkg-1.0-py3-none-any.whl", "pkg-2.0.tar.gz"}, texts(got))
}

func TestReduceWheelStemNormalization(t *testing.T) {
	t.Parallel()

	// Wheels spell the distribution with underscores where sdists use
	// hyphens; the tie-break must still see them as the same release.
	f := mustCompile(t, wheel.Policy{}, allFlags)
	got := f.Reduce(docOf(
		"typing_extensions-4.4.0-py3-none-any.whl",
		"typing-extensions-4.4.0.tar.gz",
	))
	assert.Equal(t, []string{"typing_extensions-4.4.0-py3-none-any.whl"}, texts(got))
}

func TestReduceOrderWheelsThenArchives(t *testing.T) {
	t.Parallel()

	f := mustCompile(t, wheel.Policy{}, allFlags)
	got := f.Reduce(docOf(
		"pkg-1.0.tar.gz",
		"pkg-2.0-py3-none-any.whl",
		"pkg-2.5.zip",
		"pkg-3.0-py3-none-any.whl",
	))
	assert.Equal(t, []string{
		"pkg-2.0-py3-none-any.whl",
		"pkg-3.0-py3-none-any.whl",
		"pkg-1.0.tar.gz",
		"pkg-2.5.zip",
	}, texts(got))
}

func TestReduceReleaseFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags wheel.Flags
		in    []string
		want  []string
	}{
		{
			name:  "defaults drop devs rcs and platform wheels",
			flags: wheel.Flags{},
			in: []string{
				"pkg-1.0-py3-none-any.whl",
				"pkg-1.1.dev2-py3-none-any.whl",
				"pkg-1.0rc1-py3-none-any.whl",
				"pkg-1.0-cp310-cp310-win_amd64.whl",
				"pkg-2.0rc1.tar.gz",
			},
			want: []string{"pkg-1.0-py3-none-any.whl"},
		},
		{
			name:  "include devs",
			flags: wheel.Flags{IncludeDevs: true},
			in:    []string{"pkg-1.1.dev2-py3-none-any.whl"},
			want:  []string{"pkg-1.1.dev2-py3-none-any.whl"},
		},
		{
			name:  "include rcs",
			flags: wheel.Flags{IncludeRCs: true},
			in:    []string{"pkg-1.0rc1-py3-none-any.whl", "pkg-2.0rc1.tar.gz"},
			want:  []string{"pkg-1.0rc1-py3-none-any.whl", "pkg-2.0rc1.tar.gz"},
		},
		{
			name:  "only sources drops wheels but keeps archives",
			flags: wheel.Flags{OnlySources: true},
			in:    []string{"pkg-1.0-py3-none-any.whl", "pkg-1.0.zip"},
			want:  []string{"pkg-1.0.zip"},
		},
		{
			name:  "platform specific opt in",
			flags: wheel.Flags{IncludePlatformSpecific: true},
			in:    []string{"pkg-1.0-cp310-cp310-win_amd64.whl"},
			want:  []string{"pkg-1.0-cp310-cp310-win_amd64.whl"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := mustCompile(t, wheel.Policy{}, tt.flags)
			assert.Equal(t, tt.want, texts(f.Reduce(docOf(tt.in...))))
		})
	}
}

func TestSplitArchiveName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		stem, ext string
		ok        bool
	}{
		{"pkg-1.0.zip", "pkg-1.0", "zip", true},
		{"pkg-1.0.tar.gz", "pkg-1.0", "tar.gz", true},
		{"pkg-1.0.tar.bz2", "pkg-1.0", "tar.bz2", true},
		{"pkg-1.0.tar.xz", "pkg-1.0", "tar.xz", true},
		{"pkg-1.0.tar.Z", "pkg-1.0", "tar.Z", true},
		{"pkg-1.0.tar", "pkg-1.0", "tar", true},
		{"pkg-1.0.whl", "", "", false},
		{"pkg-1.0.rar", "", "", false},
		{".zip", "", "", false},
	}
	for _, tt := range tests {
		stem, ext, ok := wheel.SplitArchiveName(tt.in)
		assert.Equal(t, tt.ok, ok, "name %q", tt.in)
		assert.Equal(t, tt.stem, stem, "name %q", tt.in)
		assert.Equal(t, tt.ext, ext, "name %q", tt.in)
	}
}
