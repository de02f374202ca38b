package pickup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jlrickert/pickup/pkg/simple"
)

// IndexFilename is the name of every index document, root and per-package.
const IndexFilename = "index.html"

// NormalizeName applies PEP 503 normalization: lowercase, runs of `-`, `_`
// and `.` collapsed to a single `-`.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	prevSep := false
	for _, r := range strings.ToLower(name) {
		if r == '-' || r == '_' || r == '.' {
			if !prevSep {
				b.WriteByte('-')
			}
			prevSep = true
			continue
		}
		prevSep = false
		b.WriteRune(r)
	}
	return b.String()
}

// rootIndexPath is <root>/index.html.
func (p *Pickup) rootIndexPath() string {
	return filepath.Join(p.Root, IndexFilename)
}

// packageDir is <root>/<pkg>/ for a normalized package name.
func (p *Pickup) packageDir(pkg string) string {
	return filepath.Join(p.Root, NormalizeName(pkg))
}

func (p *Pickup) packageIndexPath(pkg string) string {
	return filepath.Join(p.packageDir(pkg), IndexFilename)
}

// ensureRepo creates the root directory and an empty root index when absent.
func (p *Pickup) ensureRepo() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create repo root: %w", err)
	}
	path := p.rootIndexPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat root index: %w", err)
	}
	doc := simple.NewDocument("Simple index")
	return p.writeDocument(path, doc)
}

// ensurePackageDir creates the package directory and an empty package index
// when absent, so a partially synced package still shows up with a page.
func (p *Pickup) ensurePackageDir(pkg string) error {
	dir := p.packageDir(pkg)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create package dir: %w", err)
	}
	path := p.packageIndexPath(pkg)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat package index: %w", err)
	}
	doc := simple.NewDocument("Links for " + NormalizeName(pkg))
	return p.writeDocument(path, doc)
}

// readDocument loads an index document from disk. A missing file maps to
// ErrNotExist for the caller to interpret.
func (p *Pickup) readDocument(path string) (*simple.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := simple.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

// writeDocument persists a document atomically. Each call is a commit point;
// a crash between calls leaves the previous content intact.
func (p *Pickup) writeDocument(path string, doc *simple.Document) error {
	if err := p.Runtime.AtomicWriteFile(path, doc.Encode(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// rootDocument loads the root index. Missing root maps to
// ErrRepoNotInitialized.
func (p *Pickup) rootDocument() (*simple.Document, error) {
	doc, err := p.readDocument(p.rootIndexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrRepoNotInitialized
		}
		return nil, err
	}
	return doc, nil
}

// Tracked reports whether pkg has an entry in the root index. A missing
// repository tracks nothing.
func (p *Pickup) Tracked(pkg string) (bool, error) {
	doc, err := p.rootDocument()
	if err != nil {
		if errors.Is(err, ErrRepoNotInitialized) {
			return false, nil
		}
		return false, err
	}
	return doc.Has(NormalizeName(pkg)), nil
}

// TrackedPackages returns the root index entries in insertion order.
func (p *Pickup) TrackedPackages() ([]string, error) {
	doc, err := p.rootDocument()
	if err != nil {
		if errors.Is(err, ErrRepoNotInitialized) {
			return nil, nil
		}
		return nil, err
	}
	entries := doc.Entries()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Text)
	}
	return names, nil
}
