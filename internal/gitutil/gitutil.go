// Package gitutil creates ticket branches in the repository surrounding the
// working directory by shelling out to git.
package gitutil

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultPrefix is prepended to generated branch names.
const DefaultPrefix = "feature/"

type Repo struct {
	worktree string
}

// Discover locates the enclosing git repository. Not being inside one is a
// user-facing error, not a crash.
func Discover() (*Repo, error) {
	out, err := run("", "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("not in a git repository: %w", err)
	}
	return &Repo{worktree: strings.TrimSpace(out)}, nil
}

func (r *Repo) Root() string {
	return r.worktree
}

// CurrentBranch returns the checked-out branch name; detached HEAD is an
// error.
func (r *Repo) CurrentBranch() (string, error) {
	out, err := run(r.worktree, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(out)
	if branch == "HEAD" {
		return "", fmt.Errorf("could not determine the current branch: detached HEAD")
	}
	return branch, nil
}

// CheckoutNewBranch creates and checks out a branch.
func (r *Repo) CheckoutNewBranch(name string) error {
	_, err := run(r.worktree, "checkout", "-b", name)
	return err
}

// BranchName builds a branch name for a ticket: the prefix, the ticket id,
// and the lowercased title with every character outside [a-z0-9-] replaced
// by a hyphen.
func BranchName(prefix string, id int, title string) string {
	lowered := strings.ToLower(title)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return fmt.Sprintf("%s%d-%s", prefix, id, b.String())
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%s", strings.TrimSpace(stderr.String()))
		}
		return "", err
	}
	return stdout.String(), nil
}
