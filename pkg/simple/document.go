// Package simple models PEP-503 style "simple index" link documents: an
// ordered, deduplicated collection of named links. A document is either the
// root index of a local repository (one link per tracked package) or a
// package index (one link per downloaded artifact file). The same structure
// and codec are used for local files and remote index pages.
package simple

// Entry is a single named link. Text is the unique key within a document;
// Href is the link target (a relative path for local documents, usually an
// absolute URL in remote ones).
type Entry struct {
	Text string
	Href string
}

// Document is an ordered set of entries keyed by Text. Insertion order is
// preserved so serialization is stable; lookups go through the key, never the
// position. The zero value is not usable; construct with NewDocument or
// Decode.
type Document struct {
	title   string
	entries []Entry
	byText  map[string]int
}

// NewDocument returns an empty document. The title is rendered as an <h1>
// heading when encoding and carries no semantics beyond display.
func NewDocument(title string) *Document {
	return &Document{
		title:  title,
		byText: make(map[string]int),
	}
}

// Title returns the document heading, or "" if it has none.
func (d *Document) Title() string { return d.title }

// Len reports the number of entries.
func (d *Document) Len() int { return len(d.entries) }

// Has reports whether text is a key in the document.
func (d *Document) Has(text string) bool {
	_, ok := d.byText[text]
	return ok
}

// Href returns the link target for text, or "" when text is not present.
func (d *Document) Href(text string) string {
	i, ok := d.byText[text]
	if !ok {
		return ""
	}
	return d.entries[i].Href
}

// Insert appends a new entry and reports whether the key already existed.
// Inserting an existing key is a no-op: it never duplicates, reorders, or
// updates the stored href.
func (d *Document) Insert(text, href string) (alreadyExisted bool) {
	if _, ok := d.byText[text]; ok {
		return true
	}
	d.byText[text] = len(d.entries)
	d.entries = append(d.entries, Entry{Text: text, Href: href})
	return false
}

// Remove deletes the entry for text, preserving the order of the remaining
// entries, and reports whether it existed.
func (d *Document) Remove(text string) (existed bool) {
	i, ok := d.byText[text]
	if !ok {
		return false
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	delete(d.byText, text)
	for j := i; j < len(d.entries); j++ {
		d.byText[d.entries[j].Text] = j
	}
	return true
}

// Entries returns the entries in insertion order. The slice is a copy; the
// caller may modify it freely.
func (d *Document) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Map returns a text→href view of the document for diffing. Order is not
// part of the mapping; use Entries when order matters.
func (d *Document) Map() map[string]string {
	out := make(map[string]string, len(d.entries))
	for _, e := range d.entries {
		out[e.Text] = e.Href
	}
	return out
}
