package wheel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Field names an attribute of a parsed wheel filename that rules can be
// written against. The values match the keys used in the settings file.
type Field string

const (
	FieldDistribution Field = "distribution"
	FieldVersion      Field = "version"
	FieldBuildTag     Field = "build_tag"
	FieldPythonTags   Field = "python_tags"
	FieldABITags      Field = "abi_tags"
	FieldPlatformTags Field = "platform_tags"
)

// Mode decides what a matching rule means. ModeIn keeps only wheels that
// match some rule; ModeOut drops wheels that match some rule.
type Mode string

const (
	ModeIn  Mode = "in"
	ModeOut Mode = "out"
)

// Policy is the user-facing filter configuration as it appears in the
// settings file. Rules are literal strings: a leading "~" means substring
// match, and on python_tags a leading comparison marker ("<", "<=", ">",
// ">=") means numeric version comparison. Policy must be compiled into a
// Filter before use; compilation is where malformed rules are rejected.
type Policy struct {
	Enabled bool               `yaml:"enabled"`
	Mode    Mode               `yaml:"mode"`
	Rules   map[Field][]string `yaml:"rules,omitempty"`
}

// ConfigError reports a rule that cannot be compiled. It is fatal and
// surfaced before any network activity.
type ConfigError struct {
	Field  Field
	Rule   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("wheel filter rule %q on field %q: %s", e.Rule, e.Field, e.Reason)
}

// Flags are the coarse-grained release switches that run before the rule
// engine. They mirror the command line: by default development releases,
// release candidates, and platform-specific wheels are not mirrored, and
// wheels are mirrored at all only when OnlySources is off.
type Flags struct {
	OnlySources             bool
	IncludeDevs             bool
	IncludeRCs              bool
	IncludePlatformSpecific bool
}

type op int

const (
	opNever op = iota // compiles fine but can never match
	opContains
	opLT
	opLTE
	opGT
	opGTE
)

type rule struct {
	op      op
	literal string
	version int
}

// Filter is a compiled, immutable policy ready for evaluation.
type Filter struct {
	enabled bool
	mode    Mode
	groups  map[Field][]rule
	flags   Flags
}

var knownFields = map[Field]bool{
	FieldDistribution: true,
	FieldVersion:      true,
	FieldBuildTag:     true,
	FieldPythonTags:   true,
	FieldABITags:      true,
	FieldPlatformTags: true,
}

// Compile validates the policy and binds it together with the release flags.
// Inequality markers are only supported on python_tags; anywhere else they
// are a configuration error. A rule on python_tags that carries neither a
// "~" marker nor an inequality can never match: equality is only expressible
// through the substring form.
func (p Policy) Compile(flags Flags) (*Filter, error) {
	f := &Filter{
		enabled: p.Enabled,
		mode:    p.Mode,
		groups:  make(map[Field][]rule),
		flags:   flags,
	}
	if p.Enabled && p.Mode != ModeIn && p.Mode != ModeOut {
		return nil, &ConfigError{Reason: fmt.Sprintf("mode must be %q or %q, got %q", ModeIn, ModeOut, p.Mode)}
	}
	for field, raws := range p.Rules {
		if !knownFields[field] {
			return nil, &ConfigError{Field: field, Reason: "unknown field"}
		}
		for _, raw := range raws {
			r, err := compileRule(field, raw)
			if err != nil {
				return nil, err
			}
			f.groups[field] = append(f.groups[field], r)
		}
	}
	return f, nil
}

func compileRule(field Field, raw string) (rule, error) {
	lit := strings.TrimSpace(raw)

	if rest, ok := strings.CutPrefix(lit, "~"); ok {
		if field == FieldPythonTags {
			// Version tags are compared with dots stripped on both sides,
			// so "~3.1" and "~31" are the same rule.
			rest = strings.ReplaceAll(rest, ".", "")
		}
		return rule{op: opContains, literal: rest}, nil
	}

	marker, rest := cutComparison(lit)
	if field != FieldPythonTags {
		if strings.ContainsAny(lit, "<>") {
			return rule{}, &ConfigError{Field: field, Rule: raw,
				Reason: "inequality expressions are only supported on python_tags"}
		}
		return rule{op: opNever}, nil
	}

	if marker == 0 {
		// Bare literal on python_tags: no comparison operator, never matches.
		return rule{op: opNever}, nil
	}
	rest = strings.ReplaceAll(rest, ".", "")
	v, err := strconv.Atoi(rest)
	if err != nil {
		return rule{op: opNever}, nil
	}
	return rule{op: marker, literal: rest, version: v}, nil
}

// cutComparison strips a leading comparison marker and returns the matching
// operator, or opNever (0) when the rule has none.
func cutComparison(s string) (op, string) {
	switch {
	case strings.HasPrefix(s, "<="):
		return opLTE, s[2:]
	case strings.HasPrefix(s, ">="):
		return opGTE, s[2:]
	case strings.HasPrefix(s, "<"):
		return opLT, s[1:]
	case strings.HasPrefix(s, ">"):
		return opGT, s[1:]
	}
	return opNever, s
}

// attr is a tagged scalar-or-set attribute value. Filename fields are either
// a single string or a set of tags; the matcher branches on the tag instead
// of dispatching on the attribute's type.
type attr struct {
	scalar string
	tags   []string
	set    bool
}

func attrOf(f *Filename, field Field) attr {
	switch field {
	case FieldDistribution:
		return attr{scalar: f.Distribution}
	case FieldVersion:
		return attr{scalar: f.Version}
	case FieldBuildTag:
		return attr{scalar: f.BuildTag}
	case FieldPythonTags:
		return attr{tags: f.PythonTags, set: true}
	case FieldABITags:
		return attr{tags: f.ABITags, set: true}
	case FieldPlatformTags:
		return attr{tags: f.PlatformTags, set: true}
	}
	return attr{}
}

var trailingDigitsRx = regexp.MustCompile(`(\d+)$`)

// tagVersion extracts the numeric component a version tag compares by:
// "py39" is 39, "cp310" is 310. Tags without trailing digits have no
// comparable version.
func tagVersion(tag string) (int, bool) {
	m := trailingDigitsRx.FindString(strings.ReplaceAll(tag, ".", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (r rule) match(v attr) bool {
	switch r.op {
	case opContains:
		if v.set {
			for _, tag := range v.tags {
				if strings.Contains(tag, r.literal) {
					return true
				}
			}
			return false
		}
		return strings.Contains(v.scalar, r.literal)
	case opLT, opLTE, opGT, opGTE:
		if v.set {
			for _, tag := range v.tags {
				if n, ok := tagVersion(tag); ok && compare(r.op, n, r.version) {
					return true
				}
			}
			return false
		}
		n, ok := tagVersion(v.scalar)
		return ok && compare(r.op, n, r.version)
	}
	return false
}

func compare(o op, a, b int) bool {
	switch o {
	case opLT:
		return a < b
	case opLTE:
		return a <= b
	case opGT:
		return a > b
	case opGTE:
		return a >= b
	}
	return false
}

// Include evaluates the compiled rule groups against a parsed wheel. With
// filtering disabled every wheel is included. Otherwise the first matching
// rule decides: a match includes in "in" mode and excludes in "out" mode,
// and a wheel that matches nothing gets the complement.
func (f *Filter) Include(w *Filename) bool {
	if !f.enabled {
		return true
	}
	for field, group := range f.groups {
		v := attrOf(w, field)
		for _, r := range group {
			if r.match(v) {
				return f.mode == ModeIn
			}
		}
	}
	return f.mode == ModeOut
}

// Enabled reports whether the rule engine is active.
func (f *Filter) Enabled() bool { return f.enabled }

// Flags returns the release flags the filter was compiled with.
func (f *Filter) Flags() Flags { return f.flags }

var (
	devVersionRx = regexp.MustCompile(`\.?dev\d*$`)
	rcVersionRx  = regexp.MustCompile(`\.?rc\d+$`)
)

// allowRelease applies the release flags to a version string. It runs before
// the rule engine, for wheels and source archives alike.
func (f *Filter) allowRelease(version string) bool {
	if !f.flags.IncludeDevs && devVersionRx.MatchString(version) {
		return false
	}
	if !f.flags.IncludeRCs && rcVersionRx.MatchString(version) {
		return false
	}
	return true
}

// allowWheel applies the flags that only concern wheels.
func (f *Filter) allowWheel(w *Filename) bool {
	if f.flags.OnlySources {
		return false
	}
	if !f.flags.IncludePlatformSpecific {
		for _, tag := range w.PlatformTags {
			if tag != "any" {
				return false
			}
		}
	}
	return true
}
