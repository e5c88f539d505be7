// Package git wraps the go-git library with the small surface kareha needs:
// opening a repository, fetching from a remote, enumerating branches,
// resolving tip commits, and deleting branch references.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// Sentinel errors surfaced to callers. Underlying go-git errors are wrapped.
var (
	ErrNotARepository = errors.New("no git repository found")
	ErrRemoteNotFound = errors.New("remote not found")
)

// InvalidNamePlaceholder substitutes branch names that are not valid UTF-8.
const InvalidNamePlaceholder = "<invalid UTF-8>"

const unknownRepoName = "Unknown"

// RefKind distinguishes local branches from remote-tracking branches.
type RefKind int

const (
	// Local is a branch under refs/heads.
	Local RefKind = iota
	// RemoteTracking is a branch under refs/remotes.
	RemoteTracking
)

// String returns a short lowercase label for logging.
func (k RefKind) String() string {
	if k == RemoteTracking {
		return "remote"
	}
	return "local"
}

// Branch is a branch reference with its resolved name, kind, and tip hash.
// The tip hash has not yet been verified to point at a readable commit.
type Branch struct {
	Name string
	Kind RefKind
	Hash plumbing.Hash
}

// BareName strips the remote prefix from a remote-tracking branch name, so
// "origin/feature-x" becomes "feature-x". Local branch names pass through.
func (b Branch) BareName(remote string) string {
	if b.Kind == RemoteTracking {
		return strings.TrimPrefix(b.Name, remote+"/")
	}
	return b.Name
}

// Repo is an opened git repository.
type Repo struct {
	repo *gogit.Repository
	path string
}

// Open opens the repository at path. Unlike the git CLI it does not walk up
// parent directories looking for a .git; the caller decides where the
// repository lives.
func Open(path string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w in %s", ErrNotARepository, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", path, err)
	}
	return &Repo{repo: repo, path: path}, nil
}

// Name derives a human-readable repository name from the canonicalized
// repository root. It never fails; any path problem yields "Unknown".
func (r *Repo) Name() string {
	abs, err := filepath.Abs(r.path)
	if err != nil {
		return unknownRepoName
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return unknownRepoName
	}
	name := filepath.Base(resolved)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return unknownRepoName
	}
	return name
}

// Fetch performs a full fetch from the named remote: all branches and tags,
// pruning remote-tracking refs whose upstream no longer exists. Credentials
// are resolved by go-git from the environment (ssh-agent, netrc, or
// URL-embedded credentials); kareha never handles secrets itself.
// go-git's "already up-to-date" result is treated as success.
func (r *Repo) Fetch(ctx context.Context, remote string) error {
	slog.Debug("fetching from remote", "remote", remote)

	refspec := gitconfig.RefSpec(fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", remote))
	err := r.repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: remote,
		RefSpecs:   []gitconfig.RefSpec{refspec},
		Tags:       gogit.AllTags,
		Prune:      true,
		Force:      true,
	})
	if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		slog.Debug("remote already up to date", "remote", remote)
		return nil
	}
	if errors.Is(err, gogit.ErrRemoteNotFound) {
		return fmt.Errorf("%w: %q", ErrRemoteNotFound, remote)
	}
	if err != nil {
		return fmt.Errorf("fetching from %q: %w", remote, err)
	}
	slog.Debug("fetched from remote", "remote", remote)
	return nil
}

// RemoteURL returns the first fetch URL configured for the named remote.
func (r *Repo) RemoteURL(remote string) (string, error) {
	rem, err := r.repo.Remote(remote)
	if errors.Is(err, gogit.ErrRemoteNotFound) {
		return "", fmt.Errorf("%w: %q", ErrRemoteNotFound, remote)
	}
	if err != nil {
		return "", fmt.Errorf("resolving remote %q: %w", remote, err)
	}
	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", remote)
	}
	return urls[0], nil
}

// Branches enumerates all local and remote-tracking branches. Symbolic refs
// such as origin/HEAD are skipped, as are tags and other ref namespaces.
// No particular order is guaranteed. Names that are not valid UTF-8 are
// replaced with InvalidNamePlaceholder rather than dropped.
func (r *Repo) Branches() ([]Branch, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("enumerating references: %w", err)
	}

	var out []Branch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		var kind RefKind
		switch {
		case name.IsBranch():
			kind = Local
		case name.IsRemote():
			kind = RemoteTracking
		default:
			return nil
		}

		short := name.Short()
		if !utf8.ValidString(short) {
			short = InvalidNamePlaceholder
		}
		out = append(out, Branch{Name: short, Kind: kind, Hash: ref.Hash()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerating branches: %w", err)
	}
	return out, nil
}

// CommitTime resolves the commit at the given hash and returns its committer
// timestamp. Broken refs (hashes that do not resolve to a commit) return an
// error the caller is expected to treat as "skip this branch".
func (r *Repo) CommitTime(h plumbing.Hash) (time.Time, error) {
	commit, err := r.repo.CommitObject(h)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolving commit %s: %w", h, err)
	}
	return commit.Committer.When, nil
}

// DeleteBranch removes the branch reference from the local repository.
// For local branches this deletes refs/heads/<name> and any associated
// branch config; for remote-tracking branches it deletes the tracking ref
// only and never pushes a deletion upstream.
func (r *Repo) DeleteBranch(b Branch) error {
	var refName plumbing.ReferenceName
	switch b.Kind {
	case Local:
		refName = plumbing.NewBranchReferenceName(b.Name)
	case RemoteTracking:
		refName = plumbing.ReferenceName("refs/remotes/" + b.Name)
	default:
		return fmt.Errorf("unknown branch kind %d for %q", b.Kind, b.Name)
	}

	if err := r.repo.Storer.RemoveReference(refName); err != nil {
		return fmt.Errorf("deleting %s: %w", refName, err)
	}
	if b.Kind == Local {
		// Branch config may or may not exist; either way the ref is gone.
		_ = r.repo.DeleteBranch(b.Name)
	}
	slog.Debug("deleted branch reference", "ref", string(refName))
	return nil
}
