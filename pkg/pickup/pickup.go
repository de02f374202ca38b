// Package pickup keeps a local PyPI-style mirror in sync with an upstream
// simple index. A repository is a directory tree holding one root index plus
// one subdirectory per tracked package, each with its own index and the
// downloaded artifact files.
package pickup

import (
	"context"
	"fmt"
	"os"

	"github.com/jlrickert/cli-toolkit/toolkit"

	"github.com/jlrickert/pickup/pkg/fetch"
	"github.com/jlrickert/pickup/pkg/log"
	"github.com/jlrickert/pickup/pkg/wheel"
)

type Pickup struct {
	// Root is the repository directory. Under dry-run it points at a
	// temporary copy and realRoot holds the original.
	Root string

	// Remote is the upstream simple-index base URL, trailing slash included.
	Remote string

	// Runtime carries process-level dependencies.
	Runtime *toolkit.Runtime

	Client   *fetch.Client
	Filter   *wheel.Filter
	Flags    wheel.Flags
	Reporter Reporter

	dryRun   bool
	realRoot string
}

type Options struct {
	Root    string
	Runtime *toolkit.Runtime

	// Remote overrides the settings file when non-empty.
	Remote string

	// Policy overrides the settings file when non-nil.
	Policy *wheel.Policy

	Flags    wheel.Flags
	Client   *fetch.Client
	Reporter Reporter

	// DryRun runs the operation against a throwaway copy of the repository.
	// Callers must Close the Pickup to release the copy.
	DryRun bool
}

func New(opts Options) (*Pickup, error) {
	rt := opts.Runtime
	if rt == nil {
		var err error
		rt, err = toolkit.NewRuntime()
		if err != nil {
			return nil, fmt.Errorf("unable to create runtime: %w", err)
		}
	}
	if err := rt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runtime: %w", err)
	}

	root := opts.Root
	if root == "" {
		wd, err := rt.Getwd()
		if err != nil {
			return nil, fmt.Errorf("unable to determine working directory: %w", err)
		}
		root = wd
	}

	settings, err := LoadSettings(root)
	if err != nil {
		return nil, err
	}
	remote := settings.Remote
	if opts.Remote != "" {
		remote = opts.Remote
		if remote[len(remote)-1] != '/' {
			remote += "/"
		}
	}

	policy := settings.Wheels
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	filter, err := policy.Compile(opts.Flags)
	if err != nil {
		return nil, err
	}

	client := opts.Client
	if client == nil {
		client = fetch.New()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}

	p := &Pickup{
		Root:     root,
		Remote:   remote,
		Runtime:  rt,
		Client:   client,
		Filter:   filter,
		Flags:    opts.Flags,
		Reporter: reporter,
	}
	if opts.DryRun {
		if err := p.enterDryRun(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// enterDryRun copies the repository into a temp dir and points Root at it.
func (p *Pickup) enterDryRun() error {
	tmp, err := os.MkdirTemp("", "pickup-dry-*")
	if err != nil {
		return fmt.Errorf("create dry-run dir: %w", err)
	}
	if _, err := os.Stat(p.Root); err == nil {
		if err := os.CopyFS(tmp, os.DirFS(p.Root)); err != nil {
			os.RemoveAll(tmp)
			return fmt.Errorf("copy repo for dry-run: %w", err)
		}
	}
	p.dryRun = true
	p.realRoot = p.Root
	p.Root = tmp
	return nil
}

// warnFlagShadowing notes that enabled wheel rules run after the release
// flags, so artifacts admitted by include-devs/include-rcs can still be
// discarded by the rules.
func (p *Pickup) warnFlagShadowing(ctx context.Context) {
	if !p.Filter.Enabled() {
		return
	}
	if p.Flags.IncludeDevs {
		log.FromContext(ctx).Warn(
			"wheel rules are enabled and may still discard development releases admitted by include-devs")
	}
	if p.Flags.IncludeRCs {
		log.FromContext(ctx).Warn(
			"wheel rules are enabled and may still discard release candidates admitted by include-rcs")
	}
}

// DryRun reports whether this instance operates on a throwaway copy.
func (p *Pickup) DryRun() bool { return p.dryRun }

// Close releases the dry-run copy, if any. Safe to call on a live instance.
func (p *Pickup) Close() error {
	if !p.dryRun {
		return nil
	}
	tmp := p.Root
	p.Root = p.realRoot
	p.dryRun = false
	p.realRoot = ""
	return os.RemoveAll(tmp)
}
