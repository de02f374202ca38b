package wheel

import (
	"regexp"
	"strings"

	"github.com/jlrickert/pickup/pkg/simple"
)

// archiveRx recognizes source archive filenames. The stem (distribution plus
// version) is the tie-break key; the extension decides precedence.
var archiveRx = regexp.MustCompile(`^(.+)\.(zip|tar\.gz|tar\.bz2|tar\.xz|tar\.Z|tar)$`)

// SplitArchiveName splits a source archive filename into its stem and
// extension. ok is false for names that are not recognized archives.
func SplitArchiveName(name string) (stem, ext string, ok bool) {
	m := archiveRx.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// normalizeStem folds the cosmetic differences between wheel and sdist
// naming: wheels spell the distribution with underscores where sdists use
// hyphens, and index pages are case-insensitive about both.
func normalizeStem(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", "-"))
}

type archiveCandidate struct {
	ext  string
	href string
}

// Reduce filters a remote package document down to the entries worth
// mirroring. Wheels are classified one by one through the release flags and
// the rule engine. Names that do not parse as wheels fall back to the source
// archive rules, which are a cross-entry tie-break rather than a per-entry
// test: one archive survives per distribution+version, a zip beating every
// tar variant and the first tar variant seen winning otherwise, and none at
// all when a kept wheel already covers that distribution+version. The result
// keeps surviving wheels in document order followed by surviving archives in
// first-seen order.
func (f *Filter) Reduce(doc *simple.Document) *simple.Document {
	out := simple.NewDocument(doc.Title())

	wheelStems := make(map[string]bool)
	archives := make(map[string]archiveCandidate)
	var archiveOrder []string

	for _, e := range doc.Entries() {
		w, err := ParseFilename(e.Text)
		if err == nil {
			if !f.allowWheel(w) || !f.allowRelease(w.Version) || !f.Include(w) {
				continue
			}
			out.Insert(e.Text, e.Href)
			wheelStems[normalizeStem(w.Distribution+"-"+w.Version)] = true
			continue
		}

		stem, ext, ok := SplitArchiveName(e.Text)
		if !ok || !f.allowRelease(stem) {
			continue
		}
		if ext == "zip" {
			if prev, seen := archives[stem]; !seen || prev.ext != "zip" {
				if !seen {
					archiveOrder = append(archiveOrder, stem)
				}
				archives[stem] = archiveCandidate{ext: ext, href: e.Href}
			}
			continue
		}
		if _, seen := archives[stem]; !seen {
			archiveOrder = append(archiveOrder, stem)
			archives[stem] = archiveCandidate{ext: ext, href: e.Href}
		}
	}

	for _, stem := range archiveOrder {
		if wheelStems[normalizeStem(stem)] {
			continue
		}
		c := archives[stem]
		out.Insert(stem+"."+c.ext, c.href)
	}
	return out
}
