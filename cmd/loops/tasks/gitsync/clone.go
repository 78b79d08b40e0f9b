package gitsync

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Cloner checks out the branch of the repository into dest.
type Cloner func(ctx context.Context, dest string, repo Repository) error

// ShallowClone clones only the tip of the branch.
func ShallowClone(ctx context.Context, dest string, repo Repository) error {
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:           repo.URL,
		ReferenceName: plumbing.NewBranchReferenceName(repo.Branch),
		SingleBranch:  true,
		Depth:         1,
		Tags:          git.NoTags,
	})
	return err
}
