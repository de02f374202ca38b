package pickup

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/jlrickert/pickup/pkg/fetch"
	"github.com/jlrickert/pickup/pkg/simple"
)

// SyncPlan is the outcome of comparing a filtered remote document against the
// local package document.
type SyncPlan struct {
	Package string

	// ToDownload lists remote-only entries in remote document order.
	ToDownload []simple.Entry

	// LocalOnly lists filenames present locally but absent from the filtered
	// remote view. They are reported, never deleted.
	LocalOnly []string
}

// packageURL is the remote simple-index page for pkg.
func (p *Pickup) packageURL(pkg string) string {
	return p.Remote + NormalizeName(pkg) + "/"
}

// fetchRemoteDocument downloads and filters the remote package page. A 404
// maps to ErrNotFoundRemote.
func (p *Pickup) fetchRemoteDocument(ctx context.Context, pkg string) (*simple.Document, error) {
	pageURL := p.packageURL(pkg)
	data, err := p.Client.Fetch(ctx, pageURL)
	if err != nil {
		if fetch.IsNotFound(err) {
			return nil, fmt.Errorf("%s: %w", pkg, ErrNotFoundRemote)
		}
		return nil, fmt.Errorf("fetch index for %s: %w", pkg, err)
	}
	doc, err := simple.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode index for %s: %w", pkg, err)
	}
	return p.Filter.Reduce(doc), nil
}

// resolveURL turns an index href, usually relative, into an absolute URL
// against the package page it came from.
func resolveURL(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	h, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse href: %w", err)
	}
	return b.ResolveReference(h).String(), nil
}

// downloadAll runs the sequential download loop for plan. The package
// document is committed after every successful download, so an interrupted
// run leaves the index accurate for everything already on disk. A failed
// entry is reported and skipped; it never aborts the batch. Returns the
// number of successful downloads.
func (p *Pickup) downloadAll(ctx context.Context, plan *SyncPlan, local *simple.Document) (int, error) {
	pageURL := p.packageURL(plan.Package)
	dir := p.packageDir(plan.Package)

	done := 0
	for _, e := range plan.ToDownload {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		p.Reporter.Start(e.Text)

		fileURL, err := resolveURL(pageURL, e.Href)
		if err != nil {
			p.Reporter.Failed(e.Text, e.Href, err)
			continue
		}
		data, err := p.Client.Fetch(ctx, fileURL)
		if err != nil {
			p.Reporter.Failed(e.Text, fileURL, err)
			continue
		}
		path := filepath.Join(dir, e.Text)
		if err := p.Runtime.AtomicWriteFile(path, data, 0o644); err != nil {
			p.Reporter.Failed(e.Text, fileURL, err)
			continue
		}
		local.Insert(e.Text, "./"+e.Text)
		if err := p.writeDocument(p.packageIndexPath(plan.Package), local); err != nil {
			return done, err
		}
		done++
		p.Reporter.Done(e.Text, len(data))
	}
	return done, nil
}
