package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"

	"github.com/kareha-dev/kareha/internal/branches"
	"github.com/kareha-dev/kareha/internal/config"
	"github.com/kareha-dev/kareha/internal/github"
	"github.com/kareha-dev/kareha/internal/metrics"
	"github.com/kareha-dev/kareha/internal/ui"
)

// CleanCmd deletes branches whose last commit is older than the stale
// threshold.
type CleanCmd struct {
	Stale       int  `name:"stale" help:"Days before a branch is considered stale (default from config, 30)."`
	Interactive bool `name:"interactive" short:"i" help:"Pick which stale branches to delete."`
}

// effectiveThreshold resolves the stale threshold: an explicit --stale flag
// wins, otherwise the configured stale_threshold_days applies. The flag has
// no kong default so that leaving it off falls through to the config layer.
func effectiveThreshold(flag int, cfg config.Config) int {
	if flag > 0 {
		return flag
	}
	return cfg.StaleThresholdDays
}

// Run executes the clean command.
func (c *CleanCmd) Run(globals *CLI) error {
	ui.SetupLogging(globals.Verbose)

	// Metrics logging errors are discarded; see comment in ListCmd.Run.
	ml := metrics.NewOrNil()
	defer func() { _ = ml.Close() }()
	flags := commandFlags(globals)
	if c.Stale > 0 {
		flags = append(flags, fmt.Sprintf("--stale=%d", c.Stale))
	}
	_ = ml.LogCommand("clean", flags)

	res, err := fetchAndScan(context.Background(), globals)
	if err != nil {
		return err
	}
	_ = ml.LogTiming(len(res.records), res.fetchMs, res.scanMs)

	threshold := effectiveThreshold(c.Stale, res.cfg)

	out := io.Writer(os.Stdout)
	if globals.Quiet {
		out = io.Discard
	}

	stale := branches.Stale(res.records, threshold)
	printStaleSummary(out, stale)
	if len(stale) == 0 {
		return nil
	}

	candidates := stale
	if c.Interactive {
		candidates, err = promptForSelection(stale)
		if err != nil {
			return err
		}
	}
	candidates = excludeProtected(out, candidates, res.cfg, res.remote)
	if len(candidates) == 0 {
		fmt.Fprintln(out, "Nothing to delete.")
		return nil
	}

	prompt := fmt.Sprintf("Delete %d branch(es)?", len(candidates))
	if !ui.Confirm(os.Stdout, os.Stdin, prompt, globals.Yes) {
		for _, r := range candidates {
			fp := branchFingerprint(res, r.Name())
			_ = ml.LogDecision(fp, r.AgeDays, false)
		}
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	return deleteBranches(out, res, candidates, ml)
}

// printStaleSummary writes the stale branch count and one line per branch
// with its age in days.
func printStaleSummary(w io.Writer, stale []branches.Record) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	fmt.Fprintf(w, "%s\n", bold.Sprintf("Found %d stale branches.", len(stale)))
	for _, r := range stale {
		fmt.Fprintf(w, "  %s %s\n", r.Name(), dim.Sprintf("(%dd)", r.AgeDays))
	}
}

// promptForSelection shows a multi-select of the stale branches and returns
// the ones the user picked.
func promptForSelection(stale []branches.Record) ([]branches.Record, error) {
	options := make([]huh.Option[int], len(stale))
	for i, r := range stale {
		label := fmt.Sprintf("%s (%dd, %s)", r.Name(), r.AgeDays, r.Branch.Kind)
		options[i] = huh.NewOption(label, i)
	}

	var selectedIndices []int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Select branches to delete").
				Options(options...).
				Value(&selectedIndices),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}

	selected := make([]branches.Record, len(selectedIndices))
	for i, idx := range selectedIndices {
		selected[i] = stale[idx]
	}
	return selected, nil
}

// excludeProtected drops branches whose bare name matches a protected
// pattern. They still count as stale in the summary; protection only stops
// the deletion.
func excludeProtected(w io.Writer, records []branches.Record, cfg config.Config, remote string) []branches.Record {
	var kept []branches.Record
	for _, r := range records {
		if cfg.IsProtected(r.Branch.BareName(remote)) {
			slog.Warn("skipping protected branch", "branch", r.Name())
			fmt.Fprintf(w, "  skipping protected branch %s\n", r.Name())
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func deleteBranches(w io.Writer, res *scanResult, selected []branches.Record, ml *metrics.Logger) error {
	guard := newPRGuard(res)

	var failed []string
	deleted := 0
	for _, r := range selected {
		fp := branchFingerprint(res, r.Name())

		if guard.hasOpenPR(r) {
			slog.Warn("skipping branch with open pull request", "branch", r.Name())
			fmt.Fprintf(w, "  skipping %s: open pull request\n", r.Name())
			_ = ml.LogDecision(fp, r.AgeDays, false)
			continue
		}

		slog.Debug("deleting branch", "branch", r.Name(), "age_days", r.AgeDays)
		if err := res.repo.DeleteBranch(r.Branch); err != nil {
			fmt.Fprintf(w, "  failed to delete %s: %v\n", r.Name(), err)
			failed = append(failed, r.Name())
			_ = ml.LogDecision(fp, r.AgeDays, false)
			continue
		}
		fmt.Fprintf(w, "  deleted %s\n", r.Name())
		deleted++
		_ = ml.LogDecision(fp, r.AgeDays, true)
	}

	fmt.Fprintln(w)
	bold := color.New(color.Bold)
	fmt.Fprintln(w, bold.Sprintf("Deleted %d branch(es).", deleted))

	if len(failed) > 0 {
		return fmt.Errorf("failed to delete %d branch(es): %s",
			len(failed), strings.Join(failed, ", "))
	}
	return nil
}

// prGuard checks GitHub for open pull requests before a branch is deleted.
// It is best-effort: non-GitHub remotes and API failures disable the guard
// rather than blocking the cleanup.
type prGuard struct {
	client *github.Client
	owner  string
	repo   string
	remote string
}

func newPRGuard(res *scanResult) *prGuard {
	url, err := res.repo.RemoteURL(res.remote)
	if err != nil {
		slog.Debug("no remote URL, skipping PR guard", "error", err)
		return nil
	}
	owner, repo, ok := github.ParseGitHubRemote(url)
	if !ok {
		slog.Debug("remote is not GitHub, skipping PR guard", "url", url)
		return nil
	}
	return &prGuard{
		client: github.NewClient(res.cfg.GithubToken),
		owner:  owner,
		repo:   repo,
		remote: res.remote,
	}
}

// hasOpenPR reports whether the branch has an open pull request. A nil
// guard or an API error answers false; deletion proceeds.
func (g *prGuard) hasOpenPR(r branches.Record) bool {
	if g == nil {
		return false
	}
	open, err := g.client.HasOpenPR(g.owner, g.repo, r.Branch.BareName(g.remote))
	if err != nil {
		slog.Debug("PR check failed, proceeding without guard",
			"branch", r.Name(), "error", err)
		return false
	}
	return open
}
