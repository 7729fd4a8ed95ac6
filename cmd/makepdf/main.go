package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/chipsenkbeil/makepdf-sub000/config"
	"github.com/chipsenkbeil/makepdf-sub000/observability"
	"github.com/chipsenkbeil/makepdf-sub000/pipeline"
	"github.com/chipsenkbeil/makepdf-sub000/scripting"
)

type options struct {
	cfg     config.Config
	output  string
	level   slog.Level
	logFile string
}

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "make":
	case "scripts":
		for _, name := range scripting.Builtins() {
			fmt.Fprintln(stdout, scripting.BuiltinPrefix+name)
		}
		return 0
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "makepdf: unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	opts, err := parseMake(args[1:], stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "makepdf: %v\n", err)
		}
		return 2
	}

	log, closeLog, err := newLogger(stderr, opts.level, opts.logFile)
	if err != nil {
		fmt.Fprintf(stderr, "makepdf: %v\n", err)
		return 1
	}
	defer closeLog()

	saved, err := pipeline.Run(ctx, opts.cfg, opts.output, pipeline.WithLogger(log))
	if err != nil {
		log.Error("make failed", observability.Error("err", err))
		fmt.Fprintf(stderr, "makepdf: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s (%d pages)\n", saved.Path, saved.Stats.Pages)
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: makepdf <command> [flags]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  make     build a planner PDF\n")
	fmt.Fprintf(w, "  scripts  list built-in scripts\n")
}

func parseMake(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("make", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: makepdf make [flags]\n")
		fs.PrintDefaults()
	}
	def := config.Default()
	dimensions := fs.String("dimensions", def.Page.PxSize(), "Page size as WIDTHxHEIGHT{in,mm,px}")
	dpi := fs.Float64("dpi", def.Page.DPI, "Pixels per inch used for px dimensions")
	font := fs.String("font", "", "TrueType font used as the fallback (default built-in Go Mono)")
	output := fs.String("output", "", "Output PDF path (default derived from the title)")
	script := fs.String("script", def.Script, "Script path or built-in name ("+strings.Join(scripting.Builtins(), ", ")+")")
	title := fs.String("title", def.Title, "Document title")
	configPath := fs.String("config", "", "JSON config file applied before other flags")
	year := fs.Int("year", def.Planner.Year, "Planner year")
	noDaily := fs.Bool("no-daily", false, "Skip daily pages")
	noWeekly := fs.Bool("no-weekly", false, "Skip weekly pages")
	noMonthly := fs.Bool("no-monthly", false, "Skip monthly pages")
	verbose := fs.Bool("v", false, "Log debug output")
	quiet := fs.Bool("q", false, "Only log errors")
	logFile := fs.String("log-file", "", "Also write logs to this file")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg := def
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return options{}, err
		}
		cfg = loaded
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["dpi"] {
		cfg.Page.DPI = *dpi
	}
	if set["dimensions"] || set["dpi"] {
		w, h, err := config.ParseSize(*dimensions, cfg.Page.DPI)
		if err != nil {
			return options{}, err
		}
		cfg.Page.Width, cfg.Page.Height = w, h
	}
	if set["font"] {
		cfg.Page.Font = *font
	}
	if set["script"] {
		cfg.Script = *script
	}
	if set["title"] {
		cfg.Title = *title
	}
	if set["year"] {
		cfg.Planner.Year = *year
	}
	if *noDaily {
		cfg.Planner.Daily.Enabled = false
	}
	if *noWeekly {
		cfg.Planner.Weekly.Enabled = false
	}
	if *noMonthly {
		cfg.Planner.Monthly.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}

	opts := options{cfg: cfg, output: *output, level: slog.LevelInfo, logFile: *logFile}
	if opts.output == "" {
		opts.output = outputName(cfg.Title)
	}
	switch {
	case *verbose && *quiet:
		return options{}, errors.New("-v and -q are mutually exclusive")
	case *verbose:
		opts.level = slog.LevelDebug
	case *quiet:
		opts.level = slog.LevelError
	}
	return opts, nil
}

// outputName derives a file name from title, replacing anything that is not
// a letter or digit with an underscore.
func outputName(title string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, title)
	if name == "" {
		name = "planner"
	}
	return name + ".pdf"
}

func newLogger(stderr io.Writer, level slog.Level, path string) (observability.Logger, func(), error) {
	handlers := observability.MultiHandler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	}
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closeFn = func() { f.Close() }
	}
	return observability.NewSlogLogger(slog.New(handlers)), closeFn, nil
}
