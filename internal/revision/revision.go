// Package revision resolves the git commit a content tree is checked out at.
// Runs record it so the optimized output can be traced back to its source.
package revision

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
)

// Info describes the checked out commit.
type Info struct {
	Commit string
	Branch string // empty for a detached HEAD
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	if len(i.Commit) > 8 {
		return i.Commit[:8]
	}
	return i.Commit
}

// Resolve returns the HEAD commit of the repository containing dir. A directory
// outside any repository, or a repository without commits, yields a zero Info.
func Resolve(dir string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Info{}, nil
	}
	if err != nil {
		return Info{}, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to open git repository").
			WithContext("dir", dir).
			Build()
	}
	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return Info{}, nil
	}
	if err != nil {
		return Info{}, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to resolve HEAD").
			WithContext("dir", dir).
			Build()
	}
	info := Info{Commit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	return info, nil
}

// Lookup returns a resolver for dir that logs failures and reports them as
// an empty revision.
func Lookup(dir string, logger *slog.Logger) func(context.Context) string {
	if logger == nil {
		logger = slog.Default()
	}
	return func(context.Context) string {
		info, err := Resolve(dir)
		if err != nil {
			logger.Warn("Content revision unavailable", logfields.Path(dir), logfields.Error(err))
			return ""
		}
		if info.Commit != "" {
			logger.Debug("Content revision resolved",
				logfields.Path(dir),
				slog.String("commit", info.Short()),
				slog.String("branch", info.Branch))
		}
		return info.Commit
	}
}
