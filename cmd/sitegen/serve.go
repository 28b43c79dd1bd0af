package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/rationaleemotions/sitegen"
	"github.com/rationaleemotions/sitegen/internal/fileutil"
	"github.com/rationaleemotions/sitegen/internal/preview"
	"github.com/rationaleemotions/sitegen/internal/watch"
)

// runServeCmd builds once, then serves the output and rebuilds on changes
// until ctx is canceled.
func runServeCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseServeFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		printError(env.Stderr, err)
		return ExitUsage
	}

	plan, err := preparePlan(&flags.buildFlags, env)
	if err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	roots, err := watchRoots(plan)
	if err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	builder, err := plan.newBuilder()
	if err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	// Content mistakes are fixed while serving; bad setup is not.
	if code := runBuild(ctx, builder, plan, env); code == ExitUsage {
		return code
	}

	watcher, err := watch.New(plan.logger, watch.DefaultDebounce, roots...)
	if err != nil {
		printError(env.Stderr, err)
		return ExitGeneral
	}
	server := preview.New(plan.cfg.Output.Dir, flags.addr, plan.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	g.Go(func() error {
		return watcher.Run(gctx, func(ctx context.Context) {
			runBuild(ctx, builder, plan, env)
		})
	})

	if err := g.Wait(); err != nil {
		printError(env.Stderr, err)
		return ExitGeneral
	}
	return ExitSuccess
}

// watchRoots lists the directories whose changes trigger a rebuild. The
// output and the metrics file must live outside all of them, or every
// build would trigger the next one.
func watchRoots(plan *buildPlan) ([]string, error) {
	dirs := []string{plan.input.ContentDir, plan.input.PagesDir, plan.cfg.Assets.BasePath}

	out, err := filepath.Abs(plan.input.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: output dir %q: %v", sitegen.ErrConfiguration, plan.input.OutputDir, err)
	}

	var metrics string
	if plan.metricsFile != "" {
		if metrics, err = filepath.Abs(plan.metricsFile); err != nil {
			return nil, fmt.Errorf("%w: metrics file %q: %v", sitegen.ErrConfiguration, plan.metricsFile, err)
		}
	}

	var roots []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", sitegen.ErrConfiguration, dir, err)
		}
		if fileutil.IsWithin(abs, out) {
			return nil, fmt.Errorf("%w: output dir %s lies inside watched dir %s", sitegen.ErrConfiguration, out, abs)
		}
		if metrics != "" && fileutil.IsWithin(abs, metrics) {
			return nil, fmt.Errorf("%w: metrics file %s lies inside watched dir %s", sitegen.ErrConfiguration, metrics, abs)
		}
		roots = append(roots, abs)
	}
	return roots, nil
}
