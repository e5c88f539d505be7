// Package helpers provides test utilities for building real git repositories,
// including bare "remotes" for fetch and prune scenarios.
package helpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestRepo represents a test git repository on disk.
type TestRepo struct {
	Path string
	t    *testing.T
}

// NewTestRepo creates a repository named name in a temporary directory with
// a single initial commit on main.
func NewTestRepo(t *testing.T, name string) *TestRepo {
	t.Helper()

	repoPath := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(repoPath, 0750); err != nil {
		t.Fatalf("Failed to create test repo directory: %v", err)
	}

	repo := &TestRepo{Path: repoPath, t: t}

	repo.run("git", "init", "--initial-branch=main")
	repo.run("git", "config", "user.name", "Test User")
	repo.run("git", "config", "user.email", "test@example.com")

	repo.WriteFile("README.md", "# Test Repository\n")
	repo.run("git", "add", "README.md")
	repo.CommitWithDate("Initial commit", time.Now())

	return repo
}

// NewBareRepo creates a bare repository usable as a fetch remote.
func NewBareRepo(t *testing.T, name string) *TestRepo {
	t.Helper()

	repoPath := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(repoPath, 0750); err != nil {
		t.Fatalf("Failed to create bare repo directory: %v", err)
	}

	repo := &TestRepo{Path: repoPath, t: t}
	repo.run("git", "init", "--bare", "--initial-branch=main")
	return repo
}

// WriteFile writes a file into the repository worktree.
func (r *TestRepo) WriteFile(filename, content string) {
	r.t.Helper()
	path := filepath.Join(r.Path, filename)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		r.t.Fatalf("Failed to write file %s: %v", filename, err)
	}
}

// AddFile stages a file for commit.
func (r *TestRepo) AddFile(filename string) {
	r.t.Helper()
	r.run("git", "add", filename)
}

// Commit creates a commit with the current timestamp.
func (r *TestRepo) Commit(message string) {
	r.t.Helper()
	r.CommitWithDate(message, time.Now())
}

// CommitWithDate creates a commit with a specific author and committer date.
// This is what lets staleness tests run without waiting 30 days.
func (r *TestRepo) CommitWithDate(message string, date time.Time) {
	r.t.Helper()
	dateStr := date.Format(time.RFC3339)
	// #nosec G204 - git command with controlled inputs in test code
	cmd := exec.Command("git", "commit", "-m", message, "--date", dateStr)
	cmd.Dir = r.Path
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("GIT_AUTHOR_DATE=%s", dateStr),
		fmt.Sprintf("GIT_COMMITTER_DATE=%s", dateStr),
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		r.t.Fatalf("Failed to commit: %v\n%s", err, output)
	}
}

// CreateBranch creates and checks out a new branch.
func (r *TestRepo) CreateBranch(name string) {
	r.t.Helper()
	r.run("git", "checkout", "-b", name)
}

// Checkout switches to a branch.
func (r *TestRepo) Checkout(branch string) {
	r.t.Helper()
	r.run("git", "checkout", branch)
}

// AddRemote adds a remote to the repository.
func (r *TestRepo) AddRemote(name, url string) {
	r.t.Helper()
	r.run("git", "remote", "add", name, url)
}

// Push pushes a branch to a remote.
func (r *TestRepo) Push(remote, branch string) {
	r.t.Helper()
	r.run("git", "push", remote, branch)
}

// Fetch fetches from a remote, creating remote-tracking refs.
func (r *TestRepo) Fetch(remote string) {
	r.t.Helper()
	r.run("git", "fetch", remote)
}

// DeleteBranch force-deletes a branch. Works on bare repositories too,
// which is how tests remove an upstream branch before a prune.
func (r *TestRepo) DeleteBranch(name string) {
	r.t.Helper()
	r.run("git", "branch", "-D", name)
}

// WriteBrokenRef creates a branch ref pointing at an object that does not
// exist, simulating a dangling reference.
func (r *TestRepo) WriteBrokenRef(name string) {
	r.t.Helper()
	refPath := filepath.Join(r.Path, ".git", "refs", "heads", name)
	if err := os.MkdirAll(filepath.Dir(refPath), 0750); err != nil {
		r.t.Fatalf("Failed to create ref directory: %v", err)
	}
	bogus := "0123456789abcdef0123456789abcdef01234567\n"
	if err := os.WriteFile(refPath, []byte(bogus), 0600); err != nil {
		r.t.Fatalf("Failed to write broken ref: %v", err)
	}
}

// WriteInvalidNameRef creates a loose branch ref whose file name is not
// valid UTF-8, pointing at the current HEAD commit. The git CLI refuses
// such names, so the ref file is written directly.
func (r *TestRepo) WriteInvalidNameRef() {
	r.t.Helper()
	head := r.revParse("HEAD")
	refPath := filepath.Join(r.Path, ".git", "refs", "heads", string([]byte{0xff, 0xfe}))
	if err := os.WriteFile(refPath, []byte(head+"\n"), 0600); err != nil {
		r.t.Fatalf("Failed to write invalid-name ref: %v", err)
	}
}

// revParse resolves a revision to its full hash.
func (r *TestRepo) revParse(rev string) string {
	r.t.Helper()
	cmd := exec.Command("git", "rev-parse", rev)
	cmd.Dir = r.Path
	output, err := cmd.Output()
	if err != nil {
		r.t.Fatalf("Failed to rev-parse %s: %v", rev, err)
	}
	return strings.TrimSpace(string(output))
}

// HasRef reports whether the given fully-qualified ref exists.
func (r *TestRepo) HasRef(ref string) bool {
	r.t.Helper()
	cmd := exec.Command("git", "show-ref", "--verify", "--quiet", ref)
	cmd.Dir = r.Path
	return cmd.Run() == nil
}

// Branches returns all local branch names.
func (r *TestRepo) Branches() []string {
	r.t.Helper()
	cmd := exec.Command("git", "branch", "--format=%(refname:short)")
	cmd.Dir = r.Path
	output, err := cmd.Output()
	if err != nil {
		r.t.Fatalf("Failed to list branches: %v", err)
	}

	var branches []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			branches = append(branches, line)
		}
	}
	return branches
}

// run executes a command in the repository directory.
func (r *TestRepo) run(args ...string) {
	r.t.Helper()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = r.Path
	if output, err := cmd.CombinedOutput(); err != nil {
		r.t.Fatalf("Command failed: %v\n%s", args, output)
	}
}
