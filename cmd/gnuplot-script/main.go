// Command gnuplot-script renders a YAML or JSON plot document as a gnuplot
// script.
//
//	gnuplot-script sales.yaml | gnuplot
//	gnuplot-script --term svg --output sales.svg sales.yaml
//	cat sales.yaml | gnuplot-script --presets presets.yaml --user u42
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	gnuplot "github.com/goliatone/go-gnuplot"
	"github.com/goliatone/go-gnuplot/datablock"
	"github.com/goliatone/go-gnuplot/internal/hydrate"
	"github.com/goliatone/go-gnuplot/pkg/state"
	"github.com/goliatone/go-gnuplot/settings"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type flags struct {
	terminals    string
	terminalList string
	term         string
	output       string
	blockDir     string
	presets      string
	presetDomain string
	project      string
	user         string
	engine       string
	describe     bool
	verbose      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "gnuplot-script [document]",
		Short: "Render a plot document as a gnuplot script",
		Long: `Render a plot document as a gnuplot script.

The document is read from the named file, or from stdin when it is omitted
or "-". Datasets flagged with file: true are written below --datablock-dir
when it is set; those files are left in place for gnuplot to read.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			return run(cmd.Context(), cmd, source, f)
		},
	}

	cmd.Flags().StringVar(&f.terminals, "terminals", "", "YAML file listing the accepted terminals (terminals: [png, svg])")
	cmd.Flags().StringVar(&f.terminalList, "terminal-list", "", "file holding gnuplot's `set terminal` listing")
	cmd.Flags().StringVar(&f.term, "term", "", "terminal to render for, overriding the document")
	cmd.Flags().StringVar(&f.output, "output", "", "output file, overriding the document")
	cmd.Flags().StringVar(&f.blockDir, "datablock-dir", "", "directory for datasets flagged with file: true")
	cmd.Flags().StringVar(&f.presets, "presets", "", "YAML file of option presets")
	cmd.Flags().StringVar(&f.presetDomain, "preset-domain", "", "preset domain (default: the document command)")
	cmd.Flags().StringVar(&f.project, "project", "", "project whose presets apply")
	cmd.Flags().StringVar(&f.user, "user", "", "user whose presets apply")
	cmd.Flags().StringVar(&f.engine, "engine", "expr", "rule expression engine: expr, cel or js")
	cmd.Flags().BoolVar(&f.describe, "describe", false, "print the option descriptors instead of the script")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log debug output to stderr")
	cmd.MarkFlagsMutuallyExclusive("terminals", "terminal-list")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, source string, f flags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	doc, err := readDocument(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}

	opts := []gnuplot.Option{
		gnuplot.WithLogger(logger),
		gnuplot.WithEvaluatorLogger(gnuplot.SlogEvaluatorLogger(logger)),
	}

	registry, err := loadTerminals(f)
	if err != nil {
		return err
	}
	if registry != nil {
		opts = append(opts, gnuplot.WithTerminals(registry))
	}

	evaluator, err := newEvaluator(f.engine)
	if err != nil {
		return err
	}
	opts = append(opts, gnuplot.WithEvaluator(evaluator))

	if f.blockDir != "" {
		manager := datablock.NewTempFileManager(f.blockDir)
		manager.Logger = logger
		opts = append(opts, gnuplot.WithBlockManager(manager))
	}

	if f.presets != "" {
		defaults, err := loadPresets(ctx, logger, f, doc, registry)
		if err != nil {
			return err
		}
		opts = append(opts, defaults)
	}

	renderable, err := doc.Build(opts...)
	if err != nil {
		return err
	}

	if f.describe {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(gnuplot.Describe(renderable.Options())); err != nil {
			return err
		}
		return enc.Close()
	}

	pairs, err := doc.TerminalPairs()
	if err != nil {
		return err
	}
	if f.term != "" {
		pairs = append(pairs, gnuplot.KV(gnuplot.TerminalOption, f.term))
	}
	if f.output != "" {
		pairs = append(pairs, gnuplot.KV("output", f.output))
	}

	script, err := renderable.Script(pairs...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), script)
	return err
}

func readDocument(stdin io.Reader, source string) (hydrate.Document, error) {
	r := stdin
	if source != "-" {
		file, err := os.Open(source)
		if err != nil {
			return hydrate.Document{}, fmt.Errorf("open document: %w", err)
		}
		defer file.Close()
		r = file
	}
	return hydrate.NewDocumentDecoder().DecodeYAML(hydrate.Context{Source: source}, r)
}

func loadTerminals(f flags) (*settings.Registry, error) {
	path, load := f.terminals, settings.LoadYAML
	if f.terminalList != "" {
		path, load = f.terminalList, settings.ParseTerminalList
	}
	if path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open terminals: %w", err)
	}
	defer file.Close()
	return load(file)
}

func newEvaluator(engine string) (gnuplot.Evaluator, error) {
	var evaluator gnuplot.Evaluator
	switch strings.ToLower(engine) {
	case "", "expr":
		evaluator = gnuplot.NewExprEvaluator()
	case "cel":
		evaluator = gnuplot.NewCELEvaluator()
	case "js":
		evaluator = gnuplot.NewJSEvaluator()
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
	if evaluator == nil {
		return nil, fmt.Errorf("engine %q is not available in this build", engine)
	}
	return evaluator, nil
}

func loadPresets(ctx context.Context, logger *slog.Logger, f flags, doc hydrate.Document, registry *settings.Registry) (gnuplot.Option, error) {
	file, err := os.Open(f.presets)
	if err != nil {
		return nil, fmt.Errorf("open presets: %w", err)
	}
	defer file.Close()

	presets, err := hydrate.NewPresetDecoder().DecodeYAML(hydrate.Context{Source: f.presets}, file)
	if err != nil {
		return nil, err
	}
	store := state.NewMemoryStore[gnuplot.Store]()
	if err := presets.Save(ctx, store); err != nil {
		return nil, err
	}

	domain := f.presetDomain
	if domain == "" {
		domain = presetDomain(doc)
	}
	scopes := make([]state.Scope, 0, 3)
	if f.user != "" {
		scopes = append(scopes, state.User(f.user))
	}
	if f.project != "" {
		scopes = append(scopes, state.Project(f.project))
	}
	scopes = append(scopes, state.System())
	logger.Debug("gnuplot presets loaded",
		"file", f.presets,
		"domain", domain,
		"stored", fmt.Sprint(store.Scopes(domain)),
		"requested", fmt.Sprint(scopes),
	)

	resolver := state.Resolver[gnuplot.Store]{
		Store:    store,
		Validate: state.ValidateTerminal(gnuplot.TerminalValidator{Registry: registry}),
	}
	return state.Defaults(ctx, resolver, domain, scopes...)
}

func presetDomain(doc hydrate.Document) string {
	if len(doc.Plots) > 0 {
		return "multiplot"
	}
	if command := strings.ToLower(strings.TrimSpace(doc.Command)); command != "" {
		return command
	}
	return gnuplot.CommandPlot
}
