// Package branches turns the repository's branch references into age
// records and selects the stale ones.
package branches

import (
	"log/slog"
	"sort"
	"time"

	"github.com/kareha-dev/kareha/pkg/git"
)

const secondsPerDay = 86400

// Record is a scanned branch with its age in whole days at scan time.
// Records are immutable once created and live only for the current run.
type Record struct {
	Branch  git.Branch
	AgeDays int
}

// Name returns the branch's display name.
func (r Record) Name() string { return r.Branch.Name }

// Scan resolves every branch's tip commit and computes its age relative to
// now. A single now is captured by the caller and applied uniformly, so all
// records in one scan share the same reference point. Branches whose tip
// cannot be resolved are skipped without failing the scan.
func Scan(repo *git.Repo, now time.Time) ([]Record, error) {
	refs, err := repo.Branches()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(refs))
	for _, b := range refs {
		committed, err := repo.CommitTime(b.Hash)
		if err != nil {
			slog.Debug("skipping branch with unresolvable tip",
				"branch", b.Name, "error", err)
			continue
		}
		records = append(records, Record{
			Branch:  b,
			AgeDays: AgeDays(now, committed),
		})
		slog.Debug("found branch", "kind", b.Kind.String(), "name", b.Name)
	}
	return records, nil
}

// AgeDays returns the whole days elapsed between the commit time and now.
// Commits dated in the future (clock skew) clamp to 0 instead of going
// negative.
func AgeDays(now, committed time.Time) int {
	secs := now.Unix() - committed.Unix()
	if secs < 0 {
		slog.Debug("commit is dated in the future, clamping age to 0",
			"commit_time", committed, "now", now)
		return 0
	}
	return int(secs / secondsPerDay)
}

// SortByAge orders records oldest-first. The sort is stable, so branches
// with equal ages keep their original scan order.
func SortByAge(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].AgeDays > records[j].AgeDays
	})
}

// Stale returns the records strictly older than thresholdDays, preserving
// input order. A branch exactly at the threshold is not stale.
func Stale(records []Record, thresholdDays int) []Record {
	var stale []Record
	for _, r := range records {
		if r.AgeDays > thresholdDays {
			stale = append(stale, r)
		}
	}
	return stale
}
