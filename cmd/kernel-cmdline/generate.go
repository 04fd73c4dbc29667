package main

import (
	"context"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/kernel-cmdline/internal/cmdline"
	"github.com/example/kernel-cmdline/internal/config"
	"github.com/example/kernel-cmdline/internal/discovery"
	"github.com/example/kernel-cmdline/internal/featureflags"
	"github.com/example/kernel-cmdline/internal/fragment"
)

// pipeline discovers fragments, reads them one at a time, and folds them into
// a command line.
type pipeline struct {
	finder  discovery.Finder
	project string
	suffix  string
	merger  cmdline.Merger
	// progress receives one "Parsing <path>" line per fragment; nil disables it.
	progress io.Writer
	log      logr.Logger
}

func newPipeline(ctx context.Context, opts *config.Options, progress io.Writer) (*pipeline, error) {
	flags := featureflags.FromContext(ctx)
	dirs, err := discovery.Chroot(opts.Root, opts.SearchDirs...)
	if err != nil {
		return nil, err
	}
	if flags.Enabled(featureflags.FeatureNameOrder) {
		dirs = dirs.WithOrder(discovery.OrderByName)
	}
	p := &pipeline{
		finder:  dirs,
		project: opts.Project,
		suffix:  opts.Suffix,
		merger:  cmdline.Merger{TrimRemovals: flags.Enabled(featureflags.FeatureTrimRemovals)},
		log:     logr.FromContextOrDiscard(ctx).WithValues("root", dirs.Root()),
	}
	if !opts.Quiet {
		p.progress = progress
	}
	p.observe(nil)
	return p, nil
}

// observe installs the directive logger, followed by fn when it is non-nil.
func (p *pipeline) observe(fn cmdline.Observer) {
	p.merger.Observer = func(ev cmdline.Event) {
		if ev.Directive.Suspicious() {
			p.log.Info("removal target has surrounding whitespace or is empty and will only match an identical option",
				"path", ev.Source, "line", ev.Line, "directive", ev.Directive.Raw)
		}
		if ev.Action != cmdline.ActionSkipped {
			p.log.V(1).Info("applied directive", "path", ev.Source, "line", ev.Line,
				"kind", ev.Directive.Kind.String(), "option", ev.Directive.Option, "action", string(ev.Action))
		}
		if fn != nil {
			fn(ev)
		}
	}
}

func (p *pipeline) run() (cmdline.Cmdline, error) {
	entries, err := p.finder.Find(p.project, p.suffix)
	if err != nil {
		return nil, err
	}
	p.log.V(1).Info("discovered fragments", "count", len(entries))
	acc := cmdline.Cmdline{}
	for _, entry := range entries {
		if p.progress != nil {
			fmt.Fprintf(p.progress, "Parsing %s\n", entry.Path)
		}
		frag, err := readEntry(entry)
		if err != nil {
			return nil, err
		}
		acc = p.merger.ApplyFragment(acc, frag)
	}
	return acc, nil
}

func readEntry(entry discovery.Entry) (fragment.Fragment, error) {
	rc, err := entry.Open()
	if err != nil {
		return fragment.Fragment{}, err
	}
	defer rc.Close()
	frag, err := fragment.Read(entry.Path, rc)
	if err != nil {
		return fragment.Fragment{}, errors.Wrapf(err, "error parsing file '%s'", entry.Path)
	}
	return frag, nil
}

func runGenerate(cmd *cobra.Command, opts *config.Options) error {
	p, err := newPipeline(cmd.Context(), opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	merged, err := p.run()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), merged.String())
	return err
}
