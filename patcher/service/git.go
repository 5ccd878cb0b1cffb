package service

import (
	"errors"
	"fmt"
	"path/filepath"

	git "github.com/go-git/go-git/v6"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// ensureClean fails with ErrDirty when the local target differs from its committed version.
// Only file URLs can be checked; other schemes have no worktree.
func (s *Service) ensureClean(URL string) error {
	if url.Scheme(URL, file.Scheme) != file.Scheme {
		return fmt.Errorf("%w: cannot verify %s outside a local git worktree", ErrDirty, URL)
	}
	return checkClean(url.Path(URL))
}

func checkClean(location string) error {
	location, err := filepath.Abs(location)
	if err != nil {
		return err
	}
	if resolved, err := filepath.EvalSymlinks(location); err == nil {
		location = resolved
	}
	repo, err := git.PlainOpenWithOptions(filepath.Dir(location), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return fmt.Errorf("%w: %s is not in a git repository", ErrDirty, location)
		}
		return fmt.Errorf("failed to open git repository for %s: %w", location, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree for %s: %w", location, err)
	}
	root := wt.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	rel, err := filepath.Rel(root, location)
	if err != nil {
		return err
	}
	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("failed to read git status: %w", err)
	}
	fs, ok := status[filepath.ToSlash(rel)]
	if !ok {
		return nil
	}
	if fs.Worktree == git.Unmodified && fs.Staging == git.Unmodified {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDirty, filepath.ToSlash(rel))
}
