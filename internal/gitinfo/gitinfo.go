// Package gitinfo reads provenance for content kept under git.
package gitinfo

import (
	stderrors "errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when a directory is not inside a git work tree.
var ErrNotRepository = stderrors.New("not a git repository")

// HeadCommit returns the full hash checked out in the repository containing
// dir. Parent directories are searched for the .git directory.
func HeadCommit(dir string) (string, error) {
	repository, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return "", ErrNotRepository
		}
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	head, err := repository.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			// Fresh repository without commits.
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// Short abbreviates a commit hash for display.
func Short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
