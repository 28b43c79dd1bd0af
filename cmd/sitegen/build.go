package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/rationaleemotions/sitegen"
	"github.com/rationaleemotions/sitegen/internal/config"
	"github.com/rationaleemotions/sitegen/internal/logging"
	"github.com/rationaleemotions/sitegen/internal/metrics"
)

// buildPlan is everything a build needs once flags, env and config are merged.
type buildPlan struct {
	cfg         *config.Config
	input       sitegen.Input
	logger      *slog.Logger
	recorder    *metrics.PrometheusRecorder // nil without --metrics-file
	metricsFile string
	quiet       bool
}

// runBuildCmd parses flags and runs one build.
func runBuildCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseBuildFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		printError(env.Stderr, err)
		return ExitUsage
	}

	plan, err := preparePlan(flags, env)
	if err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	builder, err := plan.newBuilder()
	if err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	return runBuild(ctx, builder, plan, env)
}

// runBuild runs the builder, prints the outcome and flushes metrics.
func runBuild(ctx context.Context, builder *sitegen.Builder, plan *buildPlan, env *Environment) int {
	report, err := builder.Build(ctx, plan.input)
	printReport(report, err, plan.quiet, env)

	if plan.recorder != nil {
		if mErr := plan.recorder.WriteTextfile(plan.metricsFile); mErr != nil {
			fmt.Fprintf(env.Stderr, "warning: writing metrics to %s: %v\n", plan.metricsFile, mErr)
		}
	}

	if err != nil {
		return exitCodeFor(err)
	}
	if len(report.Failures) > 0 {
		return ExitGeneral
	}
	return ExitSuccess
}

// printReport writes the summary to stdout and failures to stderr.
func printReport(report *sitegen.Report, err error, quiet bool, env *Environment) {
	if report != nil {
		for _, f := range report.Failures {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", f.Path, f.Err)
		}
		if hint := hintFor(report.Err()); hint != "" {
			fmt.Fprintln(env.Stderr, strings.TrimPrefix(hint, "\n"))
		}
	}
	if err != nil {
		printError(env.Stderr, err)
		return
	}
	if quiet {
		return
	}

	fmt.Fprintf(env.Stdout, "%s: %d posts, %d pages, %d files written in %v",
		report.State, report.Posts, report.Pages, report.Documents, report.Duration.Round(time.Millisecond))
	if report.Skipped > 0 {
		fmt.Fprintf(env.Stdout, " (%d drafts skipped)", report.Skipped)
	}
	if n := len(report.Failures); n > 0 {
		fmt.Fprintf(env.Stdout, ", %d failed", n)
	}
	fmt.Fprintln(env.Stdout)
}

// preparePlan merges defaults, config file, env and flags, in that order.
func preparePlan(flags *buildFlags, env *Environment) (*buildPlan, error) {
	envCfg, err := loadEnvConfig(env)
	if err != nil {
		return nil, err
	}
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}

	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	cfg, err := resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(env.Stderr, logLevel(flags.common), flags.common.logFormat)
	if err != nil {
		return nil, err
	}

	plan := &buildPlan{
		cfg: cfg,
		input: sitegen.Input{
			ContentDir: cfg.Content.Dir,
			PagesDir:   cfg.Content.PagesDir,
			OutputDir:  cfg.Output.Dir,
		},
		logger:      logger,
		metricsFile: flags.metricsFile,
		quiet:       flags.common.quiet,
	}
	if flags.metricsFile != "" {
		plan.recorder = metrics.NewPrometheusRecorder()
	}
	return plan, nil
}

// resolveConfig loads an explicit config, or sitegen.yaml when present.
// Without either, the defaults apply.
func resolveConfig(nameOrPath string) (*config.Config, error) {
	if nameOrPath != "" {
		return config.LoadConfig(nameOrPath)
	}
	cfg, err := config.LoadConfig(config.DefaultName)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// mergeFlags applies explicitly set flags over cfg.
func mergeFlags(flags *buildFlags, cfg *config.Config) {
	if flags.content != "" {
		cfg.Content.Dir = flags.content
	}
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if flags.pages != "" {
		cfg.Content.PagesDir = flags.pages
	}
	if flags.baseURL != "" {
		cfg.Site.BaseURL = flags.baseURL
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}
	if flags.changed["workers"] {
		cfg.Build.Workers = flags.workers
	}
	if flags.changed["page-size"] {
		cfg.Listing.PageSize = flags.pageSize
	}
	if flags.changed["excerpt"] {
		cfg.Listing.ExcerptLength = flags.excerpt
	}
	if flags.changed["drafts"] {
		cfg.Content.Drafts = flags.drafts
	}
}

// logLevel picks the level: --log-level wins, then -v and -q.
// The summary goes to stdout, so routine logs stay below the default level.
func logLevel(f commonFlags) string {
	switch {
	case f.logLevel != "":
		return f.logLevel
	case f.verbose:
		return "debug"
	case f.quiet:
		return "error"
	default:
		return "warn"
	}
}

// newBuilder maps the merged config onto builder options.
func (p *buildPlan) newBuilder() (*sitegen.Builder, error) {
	cfg := p.cfg
	opts := []sitegen.Option{
		sitegen.WithSite(sitegen.Site{
			Title:       cfg.Site.Title,
			Author:      cfg.Site.Author,
			Description: cfg.Site.Description,
			BaseURL:     cfg.Site.BaseURL,
			IssuesURL:   cfg.Site.IssuesURL,
			DateFormat:  cfg.Site.DateFormat,
		}),
		sitegen.WithLogger(p.logger),
		sitegen.WithWorkers(cfg.Build.Workers),
		sitegen.WithExtensions(cfg.Content.Extensions...),
		sitegen.WithExcerptBudget(cfg.Listing.ExcerptLength),
		sitegen.WithPageSize(cfg.Listing.PageSize),
		sitegen.WithDrafts(cfg.Content.Drafts),
	}
	if cfg.Highlight.Style != "" {
		opts = append(opts, sitegen.WithHighlightStyle(cfg.Highlight.Style))
	}
	if p.recorder != nil {
		opts = append(opts, sitegen.WithRecorder(p.recorder))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, sitegen.WithAssetPath(cfg.Assets.BasePath))
	}
	return sitegen.NewBuilder(opts...)
}
