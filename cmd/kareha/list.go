package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/kareha-dev/kareha/internal/branches"
	"github.com/kareha-dev/kareha/internal/metrics"
	"github.com/kareha-dev/kareha/internal/ui"
)

// ListCmd lists every local and remote-tracking branch with its age.
type ListCmd struct{}

// Run executes the list command.
func (c *ListCmd) Run(globals *CLI) error {
	ui.SetupLogging(globals.Verbose)

	// Metrics are best-effort local telemetry for improving kareha.
	// Logging errors are intentionally discarded because metrics must never
	// interrupt the user's workflow or cause a command to fail.
	ml := metrics.NewOrNil()
	defer func() { _ = ml.Close() }()
	_ = ml.LogCommand("list", commandFlags(globals))

	res, err := fetchAndScan(context.Background(), globals)
	if err != nil {
		return err
	}
	_ = ml.LogTiming(len(res.records), res.fetchMs, res.scanMs)

	printList(os.Stdout, res.repo.Name(), res.records, globals.Quiet)
	return nil
}

// printList writes the repository header and the branch/age table. Quiet
// runs drop the header but keep the table, which is the command's output.
func printList(w io.Writer, repoName string, records []branches.Record, quiet bool) {
	if !quiet {
		bold := color.New(color.Bold)
		fmt.Fprintf(w, "%s\n\n", bold.Sprintf("Repository: %s", repoName))
	}
	branches.WriteTable(w, records)
}
