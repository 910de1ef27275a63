package git

import (
	"github.com/go-git/go-git/v5"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
)

// ShortHashLength matches the default abbreviation of `git rev-parse --short`.
const ShortHashLength = 7

// ShortHead returns the abbreviated hash of the commit HEAD points at in repoPath.
func ShortHead(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", derrors.GitHead(repoPath, err)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", derrors.GitHead(repoPath, err)
	}
	return ref.Hash().String()[:ShortHashLength], nil
}
