// Package main provides the kareha CLI tool for stale branch cleanup.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"

	"github.com/kareha-dev/kareha/internal/branches"
	"github.com/kareha-dev/kareha/internal/config"
	"github.com/kareha-dev/kareha/internal/metrics"
	"github.com/kareha-dev/kareha/internal/ui"
	"github.com/kareha-dev/kareha/pkg/git"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI defines the top-level command structure for kareha.
type CLI struct {
	Verbose bool   `name:"verbose" short:"v" help:"Verbose output."`
	Quiet   bool   `name:"quiet" short:"q" help:"Suppress informational output."`
	Yes     bool   `name:"yes" short:"y" help:"Assume yes for confirmation prompts."`
	Remote  string `name:"remote" help:"Remote to fetch from." env:"KAREHA_REMOTE"`
	Path    string `name:"path" help:"Path to the git repository." default:"."`

	List    ListCmd    `cmd:"" default:"1" help:"List all branches sorted by age."`
	Clean   CleanCmd   `cmd:"" help:"Delete branches older than the stale threshold."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// commandFlags collects the global flags that were set, for metrics logging.
func commandFlags(globals *CLI, extra ...string) []string {
	var flags []string
	if globals.Verbose {
		flags = append(flags, "--verbose")
	}
	if globals.Quiet {
		flags = append(flags, "--quiet")
	}
	if globals.Yes {
		flags = append(flags, "--yes")
	}
	if globals.Remote != "" {
		flags = append(flags, "--remote="+globals.Remote)
	}
	return append(flags, extra...)
}

// scanResult carries everything a command needs after the fetch+scan
// pipeline: the open repository, the effective configuration, and the
// age-sorted branch records.
type scanResult struct {
	repo    *git.Repo
	cfg     config.Config
	remote  string
	records []branches.Record
	fetchMs int
	scanMs  int
}

// fetchAndScan runs the shared pipeline: load configuration, open the
// repository, fetch all branches and tags from the remote (pruning stale
// tracking refs), then scan every branch into an age record. A fetch
// failure aborts before any scanning happens. Records come back sorted
// oldest-first.
func fetchAndScan(ctx context.Context, globals *CLI) (*scanResult, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	remote := globals.Remote
	if remote == "" {
		remote = cfg.Remote
	}

	repo, err := git.Open(globals.Path)
	if err != nil {
		return nil, err
	}

	// The spinner is decoration only; verbose runs log the same checkpoints
	// through slog instead, and quiet runs get neither.
	progress := ui.NewProgress(!globals.Quiet && !globals.Verbose)
	defer progress.Stop()

	progress.Start("Fetching...")
	fetchStart := time.Now()
	if err := repo.Fetch(ctx, remote); err != nil {
		progress.Stop()
		return nil, err
	}
	fetchMs := int(time.Since(fetchStart).Milliseconds())

	progress.Update("Scanning branches...")
	scanStart := time.Now()
	records, err := branches.Scan(repo, time.Now())
	if err != nil {
		progress.Stop()
		return nil, err
	}
	scanMs := int(time.Since(scanStart).Milliseconds())
	progress.Stop()

	branches.SortByAge(records)
	slog.Debug("scan complete", "branches", len(records),
		"fetch_ms", fetchMs, "scan_ms", scanMs)

	return &scanResult{
		repo:    repo,
		cfg:     cfg,
		remote:  remote,
		records: records,
		fetchMs: fetchMs,
		scanMs:  scanMs,
	}, nil
}

// branchFingerprint returns a stable fingerprint for a branch using the
// repo's remote URL when available, falling back to the repo path.
func branchFingerprint(res *scanResult, branch string) string {
	origin, err := res.repo.RemoteURL(res.remote)
	if err != nil || origin == "" {
		origin = res.repo.Name()
	}
	return metrics.Fingerprint(origin, branch)
}

// VersionCmd shows version information.
type VersionCmd struct{}

// Run executes the version command.
func (c *VersionCmd) Run() error {
	fmt.Printf("kareha %s (commit: %s, built: %s)\n", version, commit, date)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("kareha"),
		kong.Description(`kareha (枯れ葉) - "fallen leaves"

Rakes up the dead branches in a git repository: fetches from the remote,
lists every branch by the age of its last commit, and sweeps away the ones
that have gone stale.`),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
