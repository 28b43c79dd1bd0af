package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sitegen <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Build the site into the output directory")
	fmt.Fprintln(w, "  serve      Build, serve locally, and rebuild on changes")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'sitegen help <command>' for details on a specific command.")
}

func printBuildFlagHelp(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -i, --content <dir>       Posts directory (default \"content\")")
	fmt.Fprintln(w, "      --pages <dir>         Standalone pages directory")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default \"public\")")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default sitegen.yaml if present)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom templates and stylesheet")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "      --base-url <url>      Absolute site URL; enables feed.xml and sitemap.xml")
	fmt.Fprintln(w, "      --page-size <n>       Posts per listing page (0 = single page)")
	fmt.Fprintln(w, "      --excerpt <n>         Excerpt length in bytes")
	fmt.Fprintln(w, "      --drafts              Include posts marked draft: true")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --metrics-file <path> Write Prometheus metrics after each build")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-stage timing")
	fmt.Fprintln(w, "      --log-level <s>       Log level: debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
}

func printEnvHelp(w io.Writer) {
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  SITEGEN_CONFIG, SITEGEN_CONTENT_DIR, SITEGEN_PAGES_DIR, SITEGEN_OUTPUT_DIR")
	fmt.Fprintln(w, "  Also read from ./.env. Flags override env, env overrides the config file.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sitegen build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the site. The previous output is replaced only when the build")
	fmt.Fprintln(w, "gets as far as writing; a slug collision leaves it untouched.")
	fmt.Fprintln(w)
	printBuildFlagHelp(w)
	fmt.Fprintln(w)
	printEnvHelp(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0  success")
	fmt.Fprintln(w, "  1  some records failed")
	fmt.Fprintln(w, "  2  usage or configuration error")
	fmt.Fprintln(w, "  3  I/O error")
	fmt.Fprintln(w, "  4  slug collision")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sitegen serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build, serve the output directory, and rebuild when content changes.")
	fmt.Fprintln(w, "The output directory must be outside the watched directories.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default localhost:8080)")
	fmt.Fprintln(w)
	printBuildFlagHelp(w)
	fmt.Fprintln(w)
	printEnvHelp(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: sitegen version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: sitegen help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
