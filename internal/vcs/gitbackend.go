package vcs

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/instantdots/instantdots/internal/doterr"
)

// GitBackend is the real Backend implementation, using go-git/v5 for
// in-process git plumbing instead of shelling out to the git binary --
// the same idiom fulmenhq-goneat's internal/gitctx uses for
// PlainOpenWithOptions/repo.Head(), generalized here to clone/pull.
type GitBackend struct{}

// NewGitBackend returns the production Backend.
func NewGitBackend() *GitBackend {
	return &GitBackend{}
}

func (GitBackend) Clone(ctx context.Context, url, dest string, opts CloneOptions) error {
	cloneOpts := &git.CloneOptions{
		URL: url,
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		cloneOpts.SingleBranch = true
	}
	if opts.Depth > 0 {
		cloneOpts.Depth = opts.Depth
	}

	_, err := git.PlainCloneContext(ctx, dest, false, cloneOpts)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", doterr.ErrCloneFailed, url, err)
	}
	return nil
}

func (GitBackend) Pull(ctx context.Context, path string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", doterr.ErrPullFailed, path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: worktree for %s: %v", doterr.ErrPullFailed, path, err)
	}
	err = wt.PullContext(ctx, &git.PullOptions{})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("%w: %s: %v", doterr.ErrPullFailed, path, err)
	}
	return nil
}

func (GitBackend) CurrentBranch(path string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD for %s: %w", path, err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("%s is in detached HEAD state", path)
	}
	return head.Name().Short(), nil
}

func (GitBackend) FetchBranch(ctx context.Context, path, branch string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	refspec := config.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/origin/%s", branch, branch))
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RefSpecs: []config.RefSpec{refspec},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("%w: %s branch %s: %v", doterr.ErrPullFailed, path, branch, err)
	}
	return nil
}

func (GitBackend) CheckoutBranch(path, branch string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree for %s: %w", path, err)
	}
	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
	})
	if err != nil {
		return fmt.Errorf("%w: %s to %s: %v", doterr.ErrBranchSwitchFailed, path, branch, err)
	}
	return nil
}
