package pickup

import (
	"context"
	"fmt"

	"github.com/jlrickert/pickup/pkg/log"
)

type AddOptions struct {
	Package string
}

// Add starts tracking a package and downloads every artifact that survives
// the filter. The root entry and the empty package page are committed before
// the first download, so the package is visible in the mirror even when the
// run is interrupted. Tracking an already tracked package returns
// ErrAlreadyTracked.
func (p *Pickup) Add(ctx context.Context, opts AddOptions) error {
	name := NormalizeName(opts.Package)
	logger := log.FromContext(ctx).With("pkg", name)

	tracked, err := p.Tracked(name)
	if err != nil {
		return NewPackageError(name, err)
	}
	if tracked {
		return NewPackageError(name, ErrAlreadyTracked)
	}
	p.warnFlagShadowing(ctx)

	remote, err := p.fetchRemoteDocument(ctx, name)
	if err != nil {
		return err
	}
	logger.Debug("remote index fetched", "entries", remote.Len())

	if err := p.ensureRepo(); err != nil {
		return NewPackageError(name, err)
	}
	root, err := p.rootDocument()
	if err != nil {
		return NewPackageError(name, err)
	}
	root.Insert(name, "./"+name+"/")
	if err := p.writeDocument(p.rootIndexPath(), root); err != nil {
		return NewPackageError(name, err)
	}
	if err := p.ensurePackageDir(name); err != nil {
		return NewPackageError(name, err)
	}

	local, err := p.readDocument(p.packageIndexPath(name))
	if err != nil {
		return NewPackageError(name, fmt.Errorf("read package index: %w", err))
	}

	plan := &SyncPlan{Package: name, ToDownload: remote.Entries()}
	p.Reporter.Plan(len(plan.ToDownload))

	done, err := p.downloadAll(ctx, plan, local)
	if err != nil {
		return NewPackageError(name, err)
	}
	p.Reporter.Summary(done, len(plan.ToDownload))
	logger.Info("package added", "downloaded", done, "planned", len(plan.ToDownload))
	return nil
}
