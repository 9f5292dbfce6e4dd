package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/chainweave/chaindsl/compiler"
	"github.com/chainweave/chaindsl/errors"
	"github.com/chainweave/chaindsl/pipeline"
)

var (
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD866"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
)

func main() {
	var (
		srcFile     = flag.String("src", "", "Path to DSL source file")
		outFile     = flag.String("o", "", "Write the binary module to this path")
		printWAT    = flag.Bool("wat", false, "Print the generated WAT text")
		list        = flag.Bool("list", false, "List exported functions and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
		timeout     = flag.Duration("timeout", 10*time.Second, "Assemble time budget")
		maxDepth    = flag.Int("max-depth", 0, "Override parser nesting limit")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(*srcFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *srcFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: chainc -src <file.dsl> [-o out.wasm] [-wat] [-list]")
		fmt.Fprintln(os.Stderr, "       chainc -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*srcFile, *outFile, *printWAT, *list, *verbose, *timeout, *maxDepth); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(srcFile, outFile string, printWAT, list, verbose bool, timeout time.Duration, maxDepth int) error {
	source, err := os.ReadFile(srcFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	log := zap.NewNop()
	if verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()
	}

	var compOpts []compiler.Option
	compOpts = append(compOpts, compiler.WithFile(srcFile))
	if maxDepth > 0 {
		compOpts = append(compOpts, compiler.WithMaxDepth(maxDepth))
	}

	p := pipeline.New(
		pipeline.WithLogger(log),
		pipeline.WithTimeout(timeout),
		pipeline.WithCompilerOptions(compOpts...),
	)

	res, err := p.Compile(context.Background(), string(source))
	if err != nil {
		return err
	}

	printDiagnostics(res.Diagnostics)
	if !res.OK() {
		os.Exit(1)
	}

	if printWAT {
		fmt.Print(res.WAT)
	}

	if list {
		fmt.Printf("Exports (%d):\n", len(res.Exports))
		for _, name := range res.Exports {
			fmt.Printf("  %s\n", name)
		}
		fmt.Printf("\nSchemas (%d):\n", len(res.Schema))
		for _, s := range res.Schema {
			fmt.Printf("  %s\n", s.Name)
			for _, f := range s.Fields {
				fmt.Printf("    %s: %s\n", f.Name, f.DSLType)
			}
		}
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, res.Binary, 0o644); err != nil {
			return fmt.Errorf("write module: %w", err)
		}
		fmt.Println(styled(okStyle, fmt.Sprintf("wrote %s (%d bytes)", outFile, len(res.Binary))))
	}

	return nil
}

func printDiagnostics(diags []errors.Diagnostic) {
	for _, d := range diags {
		style := warnStyle
		if d.Severity == errors.SeverityError {
			style = errStyle
		}
		fmt.Fprintln(os.Stderr, styled(style, d.String()))
	}
}

// styled applies the lipgloss style only when stderr is a terminal, so
// redirected output stays plain.
func styled(s lipgloss.Style, text string) string {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return text
	}
	return s.Render(text)
}
