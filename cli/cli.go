// Package cli parses arguments, validates the selector and rule before any
// file is opened, and drives the pipeline.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"

	"dicomsar/logging"
	"dicomsar/pipeline"
	"dicomsar/safewrite"
	"dicomsar/selector"
	"dicomsar/transform"
	"dicomsar/ui"
)

// Exit codes: 0 clean, 1 at least one file errored, 2 bad invocation.
const (
	exitOK     = 0
	exitErrors = 1
	exitUsage  = 2
)

type (
	Args struct {
		Dump *DumpCmd `arg:"subcommand:dump" help:"print decoded elements"`
		Sar  *SarCmd  `arg:"subcommand:sar" help:"search and replace element values"`

		Workers  int    `arg:"--workers" help:"worker pool size" placeholder:"N"`
		Progress bool   `help:"live progress display"`
		Verbose  bool   `help:"debug logging"`
		LogDir   string `arg:"--log-dir" help:"directory for log files" placeholder:"DIR"`
	}
	DumpCmd struct {
		Path string `arg:"positional,required" help:"file or directory tree"`
		Tag  string `arg:"--tag" help:"tag selector, e.g. (0010,0020) or PatientID" placeholder:"TAGS"`
		JSON bool   `help:"ordered JSON output"`
	}
	SarCmd struct {
		Path    string `arg:"positional,required" help:"file or directory tree"`
		Tag     string `arg:"--tag" help:"tag selector, e.g. (0010,0020) or PatientID" placeholder:"TAGS"`
		Search  string `arg:"required" help:"regex searched in element values" placeholder:"REGEX"`
		Replace string `arg:"required" help:"replacement, supports \\1 back-references" placeholder:"TEXT"`
		DryRun  bool   `arg:"--dry-run" help:"report changes without writing"`
		InPlace bool   `arg:"--inplace" help:"overwrite without keeping a backup"`
		Force   bool   `help:"allow running without --tag (all string elements)"`
	}
)

func (Args) Description() string {
	return strings.Join(
		[]string{
			"dicomsar walks a directory tree of DICOM files and dumps or",
			"rewrites data elements selected by tag or dictionary keyword.",
			"Rewrites are regex substitutions bounded by each VR's maximum",
			"length; changed files are backed up beside themselves unless",
			"told otherwise.",
		},
		"\n",
	) + "\n"
}

// Start parses os.Args and runs; the return value is the process exit code.
func Start() int {
	args := Args{}
	parser := arg.MustParse(&args)

	if args.Dump == nil && args.Sar == nil {
		parser.WriteUsage(os.Stderr)
		return exitUsage
	}
	return run(args)
}

func run(args Args) int {
	cfg, err := buildConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitUsage
	}

	// while the progress display owns the terminal, stderr logging would
	// garble it
	logs, err := logging.Setup(logging.Options{
		Verbose: args.Verbose,
		Dir:     args.LogDir,
		Quiet:   args.Progress,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitUsage
	}
	defer logs.Close()
	cfg.Log = logs.Main
	cfg.ErrLog = logs.Error

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var progress *ui.Progress
	if args.Progress {
		progress = ui.NewProgress(cancel)
		cfg.OnEvent = progress.Send
		progress.Start()
	}

	report, runErr := pipeline.Run(ctx, cfg)
	if progress != nil {
		progress.Stop()
	}

	report.Print(os.Stdout)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "error:", runErr)
		return exitErrors
	}
	if report.Errored > 0 {
		return exitErrors
	}
	return exitOK
}

// buildConfig validates everything user-supplied up front. A bad selector or
// regex never reaches the walk.
func buildConfig(args Args) (pipeline.Config, error) {
	cfg := pipeline.Config{
		Workers: args.Workers,
		Out:     os.Stdout,
	}

	switch {
	case args.Dump != nil:
		sel, err := selector.Parse(args.Dump.Tag, true)
		if err != nil {
			return pipeline.Config{}, err
		}
		cfg.Mode = pipeline.Dump
		cfg.Root = args.Dump.Path
		cfg.Selector = sel
		cfg.JSONDump = args.Dump.JSON
		cfg.WriteMode = safewrite.DryRun
		return cfg, nil

	case args.Sar != nil:
		sel, err := selector.Parse(args.Sar.Tag, args.Sar.Force)
		if err != nil {
			return pipeline.Config{}, err
		}
		rule, err := transform.Compile(args.Sar.Search, args.Sar.Replace)
		if err != nil {
			return pipeline.Config{}, err
		}
		mode, err := writeMode(args.Sar.DryRun, args.Sar.InPlace)
		if err != nil {
			return pipeline.Config{}, err
		}
		cfg.Mode = pipeline.SearchReplace
		cfg.Root = args.Sar.Path
		cfg.Selector = sel
		cfg.Rule = rule
		cfg.WriteMode = mode
		return cfg, nil
	}

	return pipeline.Config{}, errors.New("buildConfig error: no subcommand")
}

func writeMode(dryRun bool, inPlace bool) (safewrite.Mode, error) {
	switch {
	case dryRun && inPlace:
		return 0, errors.New("--dry-run and --inplace are mutually exclusive")
	case dryRun:
		return safewrite.DryRun, nil
	case inPlace:
		return safewrite.InPlace, nil
	}
	return safewrite.Backup, nil
}
