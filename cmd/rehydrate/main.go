package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/sksl-runtime/config"
	"github.com/wippyai/sksl-runtime/dehydrate"
	"github.com/wippyai/sksl-runtime/ir"
	"github.com/wippyai/sksl-runtime/loader"
	"github.com/wippyai/sksl-runtime/rehydrate"
)

type options struct {
	in       string
	config   string
	kind     string
	module   bool
	verify   bool
	verbose  bool
	interact bool
}

func main() {
	var opts options
	flag.StringVar(&opts.in, "in", "", "Path to artifact (.sz for snappy-compressed)")
	flag.StringVar(&opts.config, "config", "", "TOML configuration file")
	flag.StringVar(&opts.kind, "kind", ir.ProgramKindFragment.String(), "Program kind whose root scope parents a module")
	flag.BoolVar(&opts.module, "module", false, "Decode as a module instead of a program")
	flag.BoolVar(&opts.verify, "verify", false, "Re-encode the result and compare with the artifact")
	flag.BoolVar(&opts.verbose, "v", false, "Debug logging")
	flag.BoolVar(&opts.interact, "i", false, "Interactive mode with TUI")
	flag.Parse()

	if opts.in == "" && !opts.module {
		fmt.Fprintln(os.Stderr, "Usage: rehydrate -in <artifact> [-config file.toml] [-verify] [-v]")
		fmt.Fprintln(os.Stderr, "       rehydrate -module [-in <artifact>] -kind runtime_shader")
		fmt.Fprintln(os.Stderr, "       rehydrate -in <artifact> -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg := config.Default()
	if opts.config != "" {
		var err error
		if cfg, err = config.Load(opts.config); err != nil {
			return err
		}
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}
	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	rehydrate.SetLogger(log)
	loader.SetLogger(log)

	kind, ok := ir.ParseProgramKind(opts.kind)
	if !ok {
		return fmt.Errorf("unknown program kind %q", opts.kind)
	}
	if opts.in == "" {
		path, ok := cfg.ModulePath(kind)
		if !ok {
			return fmt.Errorf("no -in given and no module configured for %s", kind)
		}
		opts.in = path
	}

	ctx := cfg.Context()
	l, err := loader.New(ctx, loader.Options{Logger: log, CacheSize: cfg.Cache.Size})
	if err != nil {
		return err
	}

	if opts.interact {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode requires a terminal")
		}
		return runInteractive(opts.in, func() ([]ir.Line, error) {
			if opts.module {
				mod, err := l.LoadModuleFile(opts.in, ctx.Root(kind))
				if err != nil {
					return nil, err
				}
				return ir.ModuleLines(mod), nil
			}
			prog, err := l.LoadFile(opts.in)
			if err != nil {
				return nil, err
			}
			return ir.Lines(prog), nil
		})
	}

	var (
		lines   []ir.Line
		encoded []byte
	)
	if opts.module {
		mod, err := l.LoadModuleFile(opts.in, ctx.Root(kind))
		if err != nil {
			return err
		}
		lines = ir.ModuleLines(mod)
		if opts.verify {
			if encoded, err = dehydrate.NewEncoder(dehydrate.Options{Logger: log}).EncodeModule(mod); err != nil {
				return err
			}
		}
		pterm.Info.Printfln("module %s: %d elements", opts.in, len(mod.Elements))
	} else {
		prog, err := l.LoadFile(opts.in)
		if err != nil {
			return err
		}
		lines = ir.Lines(prog)
		if opts.verify {
			if encoded, err = dehydrate.NewEncoder(dehydrate.Options{Logger: log}).Encode(prog); err != nil {
				return err
			}
		}
		pterm.Info.Printfln("program %s: kind %s, %d elements, %d nodes",
			opts.in, prog.Config.Kind, len(prog.Elements), prog.Pool.NodeCount())
	}

	printLines(lines, terminalWidth())

	if opts.verify {
		return verify(opts.in, encoded, log)
	}
	return nil
}

// verify compares a re-encoding with the artifact on disk.
func verify(path string, encoded []byte, log *zap.Logger) error {
	original, err := loader.ReadFile(path)
	if err != nil {
		return err
	}
	if bytes.Equal(original, encoded) {
		pterm.Success.Printfln("round trip is byte identical (%d bytes)", len(original))
		return nil
	}
	off := firstDifference(original, encoded)
	log.Debug("round trip mismatch",
		zap.Int("offset", off),
		zap.Int("original", len(original)),
		zap.Int("encoded", len(encoded)))
	pterm.Warning.Printfln("artifact is not in canonical form")
	return fmt.Errorf("round trip differs at byte %d (artifact %d bytes, re-encoded %d bytes)",
		off, len(original), len(encoded))
}

func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// terminalWidth returns the stdout width, or 0 when stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func printLines(lines []ir.Line, width int) {
	for _, l := range lines {
		fmt.Println(truncate(indent(l), width))
	}
}

func indent(l ir.Line) string {
	b := make([]byte, 0, 2*l.Depth+len(l.Text))
	for range l.Depth {
		b = append(b, ' ', ' ')
	}
	return string(append(b, l.Text...))
}

// truncate cuts s to width runes, marking the cut. Width 0 means unlimited.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
