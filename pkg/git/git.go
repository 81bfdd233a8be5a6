// Package git wraps the few repository operations sketch needs: shallow clones of template repositories,
// repository initialization and remotes.
package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"

	errUtils "github.com/cloudposse/sketch/errors"
	log "github.com/cloudposse/sketch/pkg/logger"
)

// DefaultRemote is the remote name used by sketch repo --remote.
const DefaultRemote = "origin"

// Clone makes a shallow clone of url into dir.
func Clone(ctx context.Context, url, dir string) error {
	log.Debug("Cloning repository", "repo", url, "dir", dir)

	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		return fmt.Errorf("%w `%s`: %w", errUtils.ErrGitClone, url, err)
	}
	return nil
}

// Init creates a repository in dir, or opens the one already there.
func Init(dir string) (*git.Repository, error) {
	repo, err := git.PlainInit(dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		log.Debug("Repository already initialized", "dir", dir)
		repo, err = git.PlainOpen(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("%w in `%s`: %w", errUtils.ErrGitInit, dir, err)
	}
	return repo, nil
}

// AddRemote registers url under name. An existing remote with the same name is replaced.
func AddRemote(repo *git.Repository, name, url string) error {
	if _, err := repo.Remote(name); err == nil {
		if err := repo.DeleteRemote(name); err != nil {
			return fmt.Errorf("%w: could not replace the remote `%s`: %w", errUtils.ErrGitInit, name, err)
		}
	}
	_, err := repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	if err != nil {
		return fmt.Errorf("%w: could not add the remote `%s`: %w", errUtils.ErrGitInit, name, err)
	}
	log.Debug("Added git remote", "name", name, "url", url)
	return nil
}

// InitWithRemote initializes dir and, when remote is not empty, adds it as origin.
func InitWithRemote(dir, remote string) error {
	repo, err := Init(dir)
	if err != nil {
		return err
	}
	if remote == "" {
		return nil
	}
	return AddRemote(repo, DefaultRemote, remote)
}
