package pickup

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jlrickert/pickup/pkg/log"
)

type RemoveOptions struct {
	Package string
}

// Remove stops tracking a package and deletes its directory subtree. The
// root index is committed before the subtree goes away, so a crash in between
// leaves orphaned files but never a dangling index entry. Removing an
// untracked package returns ErrNotTracked.
func (p *Pickup) Remove(ctx context.Context, opts RemoveOptions) error {
	name := NormalizeName(opts.Package)
	logger := log.FromContext(ctx).With("pkg", name)

	root, err := p.rootDocument()
	if err != nil {
		if errors.Is(err, ErrRepoNotInitialized) {
			return NewPackageError(name, ErrNotTracked)
		}
		return NewPackageError(name, err)
	}
	if !root.Remove(name) {
		return NewPackageError(name, ErrNotTracked)
	}
	if err := p.writeDocument(p.rootIndexPath(), root); err != nil {
		return NewPackageError(name, err)
	}
	if err := os.RemoveAll(p.packageDir(name)); err != nil {
		return NewPackageError(name, fmt.Errorf("remove package dir: %w", err))
	}
	logger.Info("package removed")
	return nil
}
