// Package wheel parses Python wheel filenames and decides which artifacts of
// a package index are worth mirroring. It implements the standard wheel
// naming convention (distribution-version[-build]-python-abi-platform.whl),
// a configurable inclusion/exclusion rule engine over the parsed attributes,
// and the fallback rules for source archives that do not parse as wheels.
package wheel

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotWheel reports that a filename does not follow the wheel naming
// convention. This is an expected outcome for source archives and other
// files on an index page; callers branch on it rather than treat it as a
// failure.
var ErrNotWheel = errors.New("not a wheel filename")

// Filename holds the semantic attributes of a parsed wheel filename. The
// three tag fields are multi-valued: compressed tag sets such as
// "py2.py3-none-any" expand to one tag per dot-separated component.
type Filename struct {
	Distribution string
	Version      string
	BuildTag     string
	PythonTags   []string
	ABITags      []string
	PlatformTags []string
}

func (f *Filename) String() string {
	parts := []string{f.Distribution, f.Version}
	if f.BuildTag != "" {
		parts = append(parts, f.BuildTag)
	}
	parts = append(parts,
		strings.Join(f.PythonTags, "."),
		strings.Join(f.ABITags, "."),
		strings.Join(f.PlatformTags, "."))
	return strings.Join(parts, "-") + ".whl"
}

var (
	partRx  = regexp.MustCompile(`^[A-Za-z0-9_.!+]+$`)
	buildRx = regexp.MustCompile(`^[0-9][A-Za-z0-9_.]*$`)
	tagRx   = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)*$`)
)

// ParseFilename decomposes a wheel filename into its attributes. Names that
// do not match the grammar return ErrNotWheel.
func ParseFilename(name string) (*Filename, error) {
	stem, ok := strings.CutSuffix(name, ".whl")
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotWheel)
	}

	parts := strings.Split(stem, "-")
	if len(parts) != 5 && len(parts) != 6 {
		return nil, fmt.Errorf("%q: %w", name, ErrNotWheel)
	}

	f := &Filename{
		Distribution: parts[0],
		Version:      parts[1],
	}
	tags := parts[2:]
	if len(parts) == 6 {
		f.BuildTag = parts[2]
		if !buildRx.MatchString(f.BuildTag) {
			return nil, fmt.Errorf("%q: %w", name, ErrNotWheel)
		}
		tags = parts[3:]
	}
	if !partRx.MatchString(f.Distribution) || !partRx.MatchString(f.Version) {
		return nil, fmt.Errorf("%q: %w", name, ErrNotWheel)
	}
	for _, t := range tags {
		if !tagRx.MatchString(t) {
			return nil, fmt.Errorf("%q: %w", name, ErrNotWheel)
		}
	}

	f.PythonTags = strings.Split(tags[0], ".")
	f.ABITags = strings.Split(tags[1], ".")
	f.PlatformTags = strings.Split(tags[2], ".")
	return f, nil
}
