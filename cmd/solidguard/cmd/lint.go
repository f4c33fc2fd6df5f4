package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/discovery"
	"github.com/wharflab/solidguard/internal/driver"
	"github.com/wharflab/solidguard/internal/fileval"
	"github.com/wharflab/solidguard/internal/presets"
	"github.com/wharflab/solidguard/internal/report"
	"github.com/wharflab/solidguard/internal/reporter"
	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/ruleconfig"
	_ "github.com/wharflab/solidguard/internal/rules/all"
)

// Exit codes, mirroring the conventions of every linter in this space:
// 0 clean, 1 violations at or above the fail level, 2 a config/parse
// problem, 3 no matching files.
const (
	ExitSuccess     = 0
	ExitViolations  = 1
	ExitConfigError = 2
	ExitNoFiles     = 3
)

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Lint Solidity source file(s) for issues",
		ArgsUsage: "[FILE_OR_DIR...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringFlag{
				Name:  "fail-level",
				Usage: "Minimum severity to cause a non-zero exit: error, warning, info, off",
				Value: "warning",
			},
			&cli.IntFlag{
				Name:  "max-warnings",
				Usage: "Exit non-zero if warnings exceed this count (-1 disables the check)",
				Value: -1,
			},
			&cli.BoolFlag{
				Name:  "strict-unknown-rules",
				Usage: "Fail instead of warning when config references an unregistered rule id",
			},
			&cli.BoolFlag{
				Name:  "list-rules",
				Usage: "Print every registered rule id and its default severity, then exit",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-file analysis time budget (0 = unlimited)",
			},
			&cli.IntFlag{
				Name:  "max-file-size",
				Usage: "Reject source files larger than this many bytes (0 = unlimited)",
				Value: 5 << 20,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text, json, sarif, github-actions, markdown",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Where to write results: stdout, stderr, or a file path",
				Value: "stdout",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output (text format only)",
			},
			&cli.BoolFlag{
				Name:  "no-source",
				Usage: "Omit source snippets from text output",
			},
		},
		Action: runLint,
	}
}

func runLint(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("list-rules") {
		printRuleList(ruleapi.Default())
		return nil
	}

	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	files, err := discoverFiles(inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to discover files: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no .sol files found in %s\n", strings.Join(inputs, ", "))
		return cli.Exit("", ExitNoFiles)
	}

	cfg, err := loadConfig(cmd, inputs[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	mode := ruleconfig.ResolveModeTolerant
	if cmd.Bool("strict-unknown-rules") {
		mode = ruleconfig.ResolveModeStrict
	}

	resolved, err := ruleconfig.Resolve(cfg, presets.Catalog, ruleapi.Default(), mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	var matched []string
	for _, f := range files {
		if resolved.MatchesFile(f) {
			matched = append(matched, f)
		}
	}
	if len(matched) == 0 {
		fmt.Fprintf(os.Stderr, "Error: every discovered file was excluded by files/exclude_files\n")
		return cli.Exit("", ExitNoFiles)
	}

	maxFileSize := cmd.Int("max-file-size")
	inputsRun := make([]driver.RunInput, 0, len(matched))
	sources := make(map[string][]byte, len(matched))
	for _, f := range matched {
		if err := fileval.ValidateFile(f, int64(maxFileSize)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", f, err)
			return cli.Exit("", ExitConfigError)
		}
		src, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", f, err)
			return cli.Exit("", ExitConfigError)
		}
		sources[f] = src
		inputsRun = append(inputsRun, driver.RunInput{
			File: f, Source: src, Resolved: resolved, Registry: ruleapi.Default(),
			Timeout: cmd.Duration("timeout"),
		})
	}

	results := driver.RunManyBounded(ctx, inputsRun, 4)

	var allIssues []diag.Issue
	var parseDiagnostics []report.ParseDiagnostic
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to analyze %s: %v\n", r.File, r.Err)
			return cli.Exit("", ExitConfigError)
		}
		allIssues = append(allIssues, r.Output.Issues...)
		parseDiagnostics = append(parseDiagnostics, report.ParseDiagnosticsFor(r.File, r.Output.ParseDiagnostics)...)
	}

	chain := report.DefaultChain(parseDiagnostics, resolved.UnknownRuleIDs)
	allIssues = chain.Process(allIssues)

	if err := writeReport(cmd, allIssues, sources, len(matched)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write report: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	thresholdOpts := report.ThresholdOptions{MinFailSeverity: parseFailLevel(cmd.String("fail-level"))}
	if n := cmd.Int("max-warnings"); n >= 0 {
		thresholdOpts = thresholdOpts.WithMaxWarnings(int(n))
	}
	result := report.Threshold(allIssues, thresholdOpts)

	fmt.Fprintf(os.Stderr, "\n%d file(s) analyzed, %d issue(s) found\n", len(matched), len(allIssues))

	if result.Exceeded {
		return cli.Exit("", ExitViolations)
	}
	return nil
}

// discoverFiles expands inputs (files, directories, or glob patterns) into
// a sorted list of .sol file paths. A path named explicitly is always
// included regardless of extension.
func discoverFiles(inputs []string) ([]string, error) {
	found, err := discovery.Discover(inputs, discovery.Options{})
	if err != nil {
		return nil, fmt.Errorf("%s: no such file or directory", strings.Join(inputs, ", "))
	}
	files := make([]string, 0, len(found))
	for _, f := range found {
		files = append(files, f.Path)
	}
	return files, nil
}

func loadConfig(cmd *cli.Command, targetPath string) (ruleconfig.Config, error) {
	if configPath := cmd.String("config"); configPath != "" {
		return ruleconfig.LoadFromFile(configPath)
	}
	return ruleconfig.Load(targetPath)
}

func parseFailLevel(level string) diag.Severity {
	switch strings.ToLower(level) {
	case "error":
		return diag.SeverityError
	case "info":
		return diag.SeverityInfo
	case "off", "none":
		return diag.SeverityOff
	default:
		return diag.SeverityWarning
	}
}

func printRuleList(reg *ruleapi.Registry) {
	for _, id := range reg.Codes() {
		r, err := reg.Get(id)
		if err != nil {
			continue
		}
		meta := r.Metadata()
		fmt.Printf("%-40s %-10s default=%s\n", meta.ID, meta.Category, meta.DefaultSeverity)
	}
}

// writeReport renders allIssues through the format/output selected on cmd.
func writeReport(cmd *cli.Command, issues []diag.Issue, sources map[string][]byte, filesScanned int) error {
	format, err := reporter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	w, closeFn, err := reporter.GetWriter(cmd.String("output"))
	if err != nil {
		return err
	}
	defer closeFn()

	opts := reporter.DefaultOptions()
	opts.Format = format
	opts.Writer = w
	opts.ShowSource = !cmd.Bool("no-source")
	if cmd.Bool("no-color") {
		off := false
		opts.Color = &off
	}

	rep, err := reporter.New(opts)
	if err != nil {
		return err
	}

	return rep.Report(issues, sources, reporter.ReportMetadata{FilesScanned: filesScanned})
}
