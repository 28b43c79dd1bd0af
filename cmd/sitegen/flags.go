package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks command-line mistakes: unknown flags, stray arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logLevel  string
	logFormat string
}

// buildFlags holds the flags of build and serve.
type buildFlags struct {
	common      commonFlags
	content     string
	output      string
	pages       string
	workers     int
	pageSize    int
	excerpt     int
	drafts      bool
	baseURL     string
	assetPath   string
	metricsFile string

	// changed records flags given explicitly, so a zero value on the
	// command line still overrides the config file.
	changed map[string]bool
}

// serveFlags extends buildFlags with the preview listener.
type serveFlags struct {
	buildFlags
	addr string
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-stage timing")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "text", "log format: text, json")
}

func addBuildFlags(fs *flag.FlagSet, f *buildFlags) {
	fs.StringVarP(&f.content, "content", "i", "", "posts directory")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.pages, "pages", "", "standalone pages directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.IntVar(&f.pageSize, "page-size", 0, "posts per listing page (0 = single page)")
	fs.IntVar(&f.excerpt, "excerpt", 0, "excerpt length in bytes")
	fs.BoolVar(&f.drafts, "drafts", false, "include draft posts")
	fs.StringVar(&f.baseURL, "base-url", "", "absolute site URL (enables feed.xml and sitemap.xml)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	addCommonFlags(fs, &f.common)
}

// visited returns the names of the flags set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	changed := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { changed[f.Name] = true })
	return changed
}

// parseBuildFlags parses build arguments. flag.ErrHelp is returned as is.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &buildFlags{}
	addBuildFlags(fs, f)
	fs.Usage = func() { printBuildUsage(stderr) }

	if err := parseArgs(fs, args); err != nil {
		return nil, err
	}
	f.changed = visited(fs)
	return f, nil
}

// parseServeFlags parses serve arguments. flag.ErrHelp is returned as is.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &serveFlags{}
	addBuildFlags(fs, &f.buildFlags)
	fs.StringVar(&f.addr, "addr", "", "listen address (default localhost:8080)")
	fs.Usage = func() { printServeUsage(stderr) }

	if err := parseArgs(fs, args); err != nil {
		return nil, err
	}
	f.changed = visited(fs)
	return f, nil
}

func parseArgs(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}
