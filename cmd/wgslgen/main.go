// Command wgslgen lowers IR modules written as YAML to WGSL.
//
// Usage:
//
//	wgslgen [options] <input.yaml>...
//
// Examples:
//
//	wgslgen shader.yaml                  # Print WGSL to stdout
//	wgslgen -o shader.wgsl shader.yaml   # Write to a file
//	wgslgen -o out/ a.yaml b.yaml        # Compile several modules into out/
//	wgslgen -entry main shader.yaml      # Emit one entry point only
//
// Settings are read from wgslgen.toml in the working directory when present.
// Flags given on the command line take precedence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"goa.design/clue/log"

	"github.com/gogpu/wgslgen"
	"github.com/gogpu/wgslgen/irfile"
)

const wgslgenVersion = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns its exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wgslgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath   = fs.String("config", defaultConfigFile, "configuration file")
		output       = fs.String("o", "", "output file, or directory with several inputs (default: stdout)")
		entry        = fs.String("entry", "", "emit only this entry point")
		pointerWidth = fs.Int("pointer-width", 8, "target pointer width in bytes (4 or 8)")
		validate     = fs.Bool("validate", true, "validate IR before lowering")
		check        = fs.Bool("check", true, "check that emitted WGSL parses")
		debug        = fs.Bool("debug", false, "enable debug logs")
		version      = fs.Bool("version", false, "print version")
	)
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *version {
		fmt.Fprintf(stdout, "wgslgen version %s\n", wgslgenVersion)
		return 0
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		printError(stderr, "wgslgen", errors.New("no input file specified"))
		usage(fs)
		return 2
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := loadConfig(*configPath, set["config"])
	if err != nil {
		printError(stderr, "config", err)
		return 1
	}
	if set["o"] {
		cfg.OutputDir = ""
	}
	if set["entry"] {
		cfg.EntryPoint = *entry
	}
	if set["pointer-width"] {
		cfg.PointerWidth = *pointerWidth
	}
	if set["validate"] {
		cfg.Validate = *validate
	}
	if set["check"] {
		cfg.Check = *check
	}
	if err := cfg.validate(); err != nil {
		printError(stderr, "flags", err)
		return 2
	}

	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	opts := []log.LogOption{log.WithFormat(format), log.WithOutput(stderr)}
	if *debug {
		opts = append(opts, log.WithDebug())
	}
	ctx := log.Context(context.Background(), opts...)

	targets := make([]wgslgen.Target, 0, len(inputs))
	failed := false
	for _, input := range inputs {
		module, err := irfile.Load(input)
		if err != nil {
			printError(stderr, input, err)
			failed = true
			continue
		}
		targets = append(targets, wgslgen.Target{Name: input, Module: module, Options: cfg.wgslOptions()})
	}

	results, err := wgslgen.CompileTargets(ctx, targets, cfg.compileOptions())
	if err != nil {
		printError(stderr, "wgslgen", err)
		return 1
	}

	for _, r := range results {
		if r.Err != nil {
			printError(stderr, r.Name, r.Err)
			failed = true
			continue
		}
		if r.Info.MalformedConstants > 0 {
			printWarning(stderr, "%s: %d constants emitted without type information", r.Name, r.Info.MalformedConstants)
		}
		path := outputPath(r.Name, *output, cfg.OutputDir, len(inputs))
		if path == "" {
			if _, err := io.WriteString(stdout, r.Source); err != nil {
				printError(stderr, r.Name, err)
				return 1
			}
			continue
		}
		if err := writeOutput(path, r.Source); err != nil {
			printError(stderr, r.Name, err)
			failed = true
			continue
		}
		printSuccess(stderr, "%s -> %s (%d bytes)", r.Name, path, len(r.Source))
	}

	if failed {
		return 1
	}
	return 0
}

// outputPath picks where the WGSL for input goes. Empty means stdout.
func outputPath(input, output, outputDir string, inputs int) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".wgsl"
	switch {
	case output != "" && inputs == 1:
		return output
	case output != "":
		return filepath.Join(output, name)
	case outputDir != "":
		return filepath.Join(outputDir, name)
	case inputs == 1:
		return ""
	default:
		return strings.TrimSuffix(input, filepath.Ext(input)) + ".wgsl"
	}
}

func writeOutput(path, source string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(source), 0o644) //nolint:gosec // generated shader source is not secret
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "Usage: wgslgen [options] <input.yaml>...\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  wgslgen shader.yaml                 Compile to stdout\n")
	fmt.Fprintf(w, "  wgslgen -o shader.wgsl shader.yaml  Compile to file\n")
	fmt.Fprintf(w, "  wgslgen -o out a.yaml b.yaml        Compile several modules into out\n")
}
