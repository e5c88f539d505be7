package main

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/kareha-dev/kareha/internal/branches"
	"github.com/kareha-dev/kareha/internal/config"
	"github.com/kareha-dev/kareha/pkg/git"
	"github.com/kareha-dev/kareha/test/helpers"
)

func plainColors(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func record(name string, kind git.RefKind, age int) branches.Record {
	return branches.Record{
		Branch:  git.Branch{Name: name, Kind: kind, Hash: plumbing.ZeroHash},
		AgeDays: age,
	}
}

func TestPrintStaleSummary(t *testing.T) {
	plainColors(t)

	stale := []branches.Record{
		record("feature/old", git.Local, 90),
		record("origin/abandoned", git.RemoteTracking, 45),
	}

	var buf strings.Builder
	printStaleSummary(&buf, stale)

	want := "Found 2 stale branches.\n" +
		"  feature/old (90d)\n" +
		"  origin/abandoned (45d)\n"
	if buf.String() != want {
		t.Errorf("summary mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrintStaleSummary_Empty(t *testing.T) {
	plainColors(t)

	var buf strings.Builder
	printStaleSummary(&buf, nil)

	if buf.String() != "Found 0 stale branches.\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestPrintList(t *testing.T) {
	plainColors(t)

	records := []branches.Record{
		record("feature/x", git.Local, 45),
		record("main", git.Local, 2),
	}

	var buf strings.Builder
	printList(&buf, "widgets", records, false)

	out := buf.String()
	if !strings.HasPrefix(out, "Repository: widgets\n\n") {
		t.Errorf("missing repository header: %q", out)
	}
	if !strings.Contains(out, "Branch      Age (days)\n") {
		t.Errorf("missing table header: %q", out)
	}
	if !strings.Contains(out, "feature/x           45\n") {
		t.Errorf("missing branch row: %q", out)
	}
}

func TestPrintList_QuietDropsHeader(t *testing.T) {
	plainColors(t)

	var buf strings.Builder
	printList(&buf, "widgets", []branches.Record{record("main", git.Local, 2)}, true)

	out := buf.String()
	if strings.Contains(out, "Repository:") {
		t.Errorf("quiet output should not have the header: %q", out)
	}
	if !strings.HasPrefix(out, "Branch      Age (days)\n") {
		t.Errorf("table should start immediately: %q", out)
	}
}

func TestExcludeProtected(t *testing.T) {
	plainColors(t)

	cfg := config.Defaults()
	cfg.ProtectedBranches = []string{"main", "release/*"}

	records := []branches.Record{
		record("main", git.Local, 100),
		record("origin/main", git.RemoteTracking, 100),
		record("release/v2", git.Local, 60),
		record("feature/old", git.Local, 90),
	}

	var buf strings.Builder
	kept := excludeProtected(&buf, records, cfg, "origin")

	if len(kept) != 1 || kept[0].Name() != "feature/old" {
		t.Errorf("kept = %+v, want only feature/old", kept)
	}
	for _, name := range []string{"main", "origin/main", "release/v2"} {
		if !strings.Contains(buf.String(), "skipping protected branch "+name) {
			t.Errorf("missing skip notice for %s in %q", name, buf.String())
		}
	}
}

func TestCommandFlags(t *testing.T) {
	globals := &CLI{Verbose: true, Yes: true, Remote: "upstream"}

	got := commandFlags(globals, "--stale=14")
	want := []string{"--verbose", "--yes", "--remote=upstream", "--stale=14"}

	if len(got) != len(want) {
		t.Fatalf("flags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("flags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEffectiveThreshold(t *testing.T) {
	cfg := config.Defaults()
	cfg.StaleThresholdDays = 60

	tests := []struct {
		name string
		flag int
		want int
	}{
		{"explicit flag wins", 14, 14},
		{"absent flag uses config", 0, 60},
		{"negative flag uses config", -1, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := effectiveThreshold(tt.flag, cfg); got != tt.want {
				t.Errorf("effectiveThreshold(%d) = %d, want %d", tt.flag, got, tt.want)
			}
		})
	}
}

func TestCleanStaleFlagHasNoDefault(t *testing.T) {
	// An absent --stale must parse to the zero value so the configured
	// stale_threshold_days can take effect.
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	if err != nil {
		t.Fatalf("unexpected error building parser: %v", err)
	}

	if _, err := parser.Parse([]string{"clean"}); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cli.Clean.Stale != 0 {
		t.Errorf("absent --stale parsed to %d, want 0", cli.Clean.Stale)
	}

	if _, err := parser.Parse([]string{"clean", "--stale", "14"}); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cli.Clean.Stale != 14 {
		t.Errorf("--stale 14 parsed to %d", cli.Clean.Stale)
	}
}

func TestDeleteBranches_WritesToGivenWriter(t *testing.T) {
	plainColors(t)

	repo := helpers.NewTestRepo(t, "sweep")
	repo.CreateBranch("feature/old")
	repo.Checkout("main")

	r, err := git.Open(repo.Path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	refs, err := r.Branches()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var target git.Branch
	for _, b := range refs {
		if b.Name == "feature/old" {
			target = b
		}
	}
	if target.Name == "" {
		t.Fatal("expected feature/old to exist")
	}

	res := &scanResult{repo: r, cfg: config.Defaults(), remote: "origin"}
	selected := []branches.Record{{Branch: target, AgeDays: 90}}

	var buf strings.Builder
	if err := deleteBranches(&buf, res, selected, nil); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	if !strings.Contains(buf.String(), "  deleted feature/old\n") {
		t.Errorf("missing per-branch line in %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Deleted 1 branch(es).\n") {
		t.Errorf("missing summary line in %q", buf.String())
	}
	if repo.HasRef("refs/heads/feature/old") {
		t.Error("expected refs/heads/feature/old to be deleted")
	}
}

func TestNilPRGuardAnswersFalse(t *testing.T) {
	var g *prGuard
	if g.hasOpenPR(record("feature/old", git.Local, 90)) {
		t.Error("nil guard must never block a deletion")
	}
}
