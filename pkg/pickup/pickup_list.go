package pickup

import (
	"context"
	"errors"

	"github.com/jlrickert/pickup/pkg/simple"
)

type ListOptions struct {
	// Package selects a per-package file listing. Empty lists the tracked
	// packages from the root index.
	Package string
}

// Listing is a read-only view of one index document.
type Listing struct {
	// Package is empty for the root listing.
	Package string
	Entries []simple.Entry
}

// List reads the root or a package index without touching the network. An
// untracked package returns ErrNotTracked.
func (p *Pickup) List(ctx context.Context, opts ListOptions) (*Listing, error) {
	if opts.Package == "" {
		doc, err := p.rootDocument()
		if err != nil {
			if errors.Is(err, ErrRepoNotInitialized) {
				return &Listing{}, nil
			}
			return nil, err
		}
		return &Listing{Entries: doc.Entries()}, nil
	}

	name := NormalizeName(opts.Package)
	tracked, err := p.Tracked(name)
	if err != nil {
		return nil, NewPackageError(name, err)
	}
	if !tracked {
		return nil, NewPackageError(name, ErrNotTracked)
	}
	doc, err := p.readDocument(p.packageIndexPath(name))
	if err != nil {
		return nil, NewPackageError(name, err)
	}
	return &Listing{Package: name, Entries: doc.Entries()}, nil
}
