package pickup

import (
	"context"
	"fmt"
	"strings"

	"github.com/jlrickert/pickup/pkg/log"
	"github.com/jlrickert/pickup/pkg/simple"
)

type UpdateOptions struct {
	Package string
}

// Update refreshes a tracked package: artifacts that appeared in the filtered
// remote view since the last run are downloaded, and local files that fell
// out of it are reported as warnings but never deleted. Updating an untracked
// package returns ErrNotTracked.
func (p *Pickup) Update(ctx context.Context, opts UpdateOptions) error {
	name := NormalizeName(opts.Package)
	logger := log.FromContext(ctx).With("pkg", name)

	tracked, err := p.Tracked(name)
	if err != nil {
		return NewPackageError(name, err)
	}
	if !tracked {
		return NewPackageError(name, ErrNotTracked)
	}
	p.warnFlagShadowing(ctx)

	remote, err := p.fetchRemoteDocument(ctx, name)
	if err != nil {
		return err
	}

	if err := p.ensurePackageDir(name); err != nil {
		return NewPackageError(name, err)
	}
	local, err := p.readDocument(p.packageIndexPath(name))
	if err != nil {
		return NewPackageError(name, fmt.Errorf("read package index: %w", err))
	}

	plan := p.diff(name, remote, local)
	if len(plan.LocalOnly) > 0 {
		p.Reporter.Warnings(plan.LocalOnly)
	}
	p.Reporter.Plan(len(plan.ToDownload))

	done, err := p.downloadAll(ctx, plan, local)
	if err != nil {
		return NewPackageError(name, err)
	}
	p.Reporter.Summary(done, len(plan.ToDownload))
	logger.Info("package updated", "downloaded", done,
		"planned", len(plan.ToDownload), "local_only", len(plan.LocalOnly))
	return nil
}

// UpdateAll runs Update over every tracked package in root index order. Each
// package's failure is reported and the loop moves on; the first error is
// returned after the sweep so batch callers still learn something broke.
func (p *Pickup) UpdateAll(ctx context.Context) error {
	names, err := p.TrackedPackages()
	if err != nil {
		return err
	}
	var firstErr error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Update(ctx, UpdateOptions{Package: name}); err != nil {
			log.FromContext(ctx).Warn("update failed", "pkg", name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// diff splits the filtered remote view against the local document. Keys are
// filenames; hrefs play no part in the comparison. Under OnlySources the
// local-only warnings skip wheels, since those are expected to be absent from
// the remote view rather than withdrawn.
func (p *Pickup) diff(pkg string, remote, local *simple.Document) *SyncPlan {
	plan := &SyncPlan{Package: pkg}
	for _, e := range remote.Entries() {
		if !local.Has(e.Text) {
			plan.ToDownload = append(plan.ToDownload, e)
		}
	}
	for _, e := range local.Entries() {
		if remote.Has(e.Text) {
			continue
		}
		if p.Flags.OnlySources && strings.HasSuffix(e.Text, ".whl") {
			continue
		}
		plan.LocalOnly = append(plan.LocalOnly, e.Text)
	}
	return plan
}
