package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sigil/internal/astpack"
	"sigil/internal/diag"
	"sigil/internal/diagfmt"
	"sigil/internal/project"
	"sigil/internal/sema"
	"sigil/internal/source"
)

var (
	checkFormat string
	checkJobs   int
)

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "output format (text|json)")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "snapshots checked in parallel (0 = NumCPU)")
}

var checkCmd = &cobra.Command{
	Use:   "check <snapshot>...",
	Short: "Type-check parsed module snapshots",
	Long: `Check runs the five-phase type checker over one or more parser
snapshots (.sigp) and prints the diagnostics. Snapshots are checked
independently and in parallel; output order follows the argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

// checkResult holds one snapshot's outcome; checking runs in parallel but
// printing stays sequential and ordered.
type checkResult struct {
	path string
	fset *source.FileSet
	bag  *diag.Bag
	err  error
}

func runCheck(cmd *cobra.Command, args []string) error {
	manifest, err := project.LoadOrDefault(".")
	if err != nil {
		return err
	}
	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")
	if maxDiag <= 0 {
		maxDiag = manifest.Check.MaxDiagnostics
	}
	colorMode, _ := cmd.Flags().GetString("color")

	jobs := checkJobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]checkResult, len(args))
	var eg errgroup.Group
	eg.SetLimit(jobs)
	for i, path := range args {
		i, path := i, path
		eg.Go(func() error {
			results[i] = checkSnapshot(path, maxDiag)
			return nil
		})
	}
	// воркеры не возвращают ошибок: всё в results
	_ = eg.Wait()

	failed := false
	for _, res := range results {
		if res.err != nil {
			fmt.Fprintf(os.Stderr, "sigilc: %s: %v\n", res.path, res.err)
			failed = true
			if res.bag == nil {
				continue
			}
		}
		switch checkFormat {
		case "json":
			if err := diagfmt.WriteJSON(os.Stdout, res.fset, res.bag); err != nil {
				return err
			}
		default:
			printer := diagfmt.NewPrinter(os.Stdout, res.fset, useColor(colorMode, os.Stdout))
			printer.PrintBag(res.bag)
		}
		if res.bag.HasErrors() || (manifest.Check.WarningsAsErrors && res.bag.HasWarnings()) {
			failed = true
		}
	}
	if failed {
		// сообщение об ошибке уже напечатано диагностиками
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		os.Exit(1)
	}
	return nil
}

func checkSnapshot(path string, maxDiag int) checkResult {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return checkResult{path: path, err: err}
	}
	builder, fset, strs, err := astpack.Decode(data)
	if err != nil {
		return checkResult{path: path, err: err}
	}
	_, bag, err := sema.BuildTypedContext(builder, fset, sema.Options{
		Strings:        strs,
		MaxDiagnostics: maxDiag,
	})
	if err != nil {
		var internal *sema.InternalError
		if errors.As(err, &internal) {
			// дефект чекера: диагностики уже в bag, пометим и выходной код
			return checkResult{path: path, fset: fset, bag: bag, err: err}
		}
		return checkResult{path: path, err: err}
	}
	return checkResult{path: path, fset: fset, bag: bag}
}
