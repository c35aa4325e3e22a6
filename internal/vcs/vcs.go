// Package vcs defines the pluggable git collaborator spec §9 calls for:
// clone/pull/current-branch/fetch-branch/checkout-branch, testable
// against an in-memory fake. The real implementation (gitbackend.go)
// uses github.com/go-git/go-git/v5, grounded on
// fulmenhq-goneat/internal/gitctx's go-git usage.
package vcs

import "context"

// CloneOptions configures a Clone call.
type CloneOptions struct {
	Branch string // empty means the remote's default branch
	Depth  int    // shallow clone depth; 0 means full history
}

// Backend is the opaque git collaborator spec §1/§9 describes: the core
// depends only on this interface, never on a concrete git invocation
// mechanism.
type Backend interface {
	Clone(ctx context.Context, url, dest string, opts CloneOptions) error
	Pull(ctx context.Context, path string) error
	CurrentBranch(path string) (string, error)
	FetchBranch(ctx context.Context, path, branch string) error
	CheckoutBranch(path, branch string) error
}
