package gitstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog"

	"github.com/aleister1102/satwatch/internal/config"
)

// GitStore commits the state file to the repository it lives in and
// optionally pushes the commit.
type GitStore struct {
	cfg    *config.GitConfig
	logger zerolog.Logger
}

// NewGitStore creates a new GitStore.
func NewGitStore(cfg *config.GitConfig, logger zerolog.Logger) *GitStore {
	return &GitStore{
		cfg:    cfg,
		logger: logger.With().Str("module", "GitStore").Logger(),
	}
}

// CommitStateFile stages the state file and commits it with the configured
// message and author. It returns the commit hash, or an empty string when the
// worktree has no changes to the file.
func (gs *GitStore) CommitStateFile(ctx context.Context, stateFilePath string) (string, error) {
	if !gs.cfg.Enabled {
		gs.logger.Debug().Msg("Git persistence disabled, skipping commit")
		return "", nil
	}

	repo, err := git.PlainOpen(gs.cfg.RepoPath)
	if err != nil {
		return "", fmt.Errorf("opening repository at '%s': %w", gs.cfg.RepoPath, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	relPath, err := gs.repoRelativePath(stateFilePath)
	if err != nil {
		return "", err
	}

	status, err := worktree.Status()
	if err != nil {
		return "", fmt.Errorf("getting worktree status: %w", err)
	}
	if fileStatus, ok := status[relPath]; !ok || (fileStatus.Worktree == git.Unmodified && fileStatus.Staging == git.Unmodified) {
		gs.logger.Info().Str("file", relPath).Msg("State file unchanged in worktree, nothing to commit")
		return "", nil
	}

	if _, err := worktree.Add(relPath); err != nil {
		return "", fmt.Errorf("staging '%s': %w", relPath, err)
	}

	commitHash, err := worktree.Commit(gs.cfg.CommitMessage, &git.CommitOptions{
		Author: &object.Signature{
			Name:  gs.cfg.AuthorName,
			Email: gs.cfg.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("committing state file: %w", err)
	}

	gs.logger.Info().
		Str("commit", commitHash.String()).
		Str("file", relPath).
		Msg("State file committed")

	if gs.cfg.PushEnabled {
		if err := gs.push(ctx, repo); err != nil {
			// The commit is already recorded locally. Push failure is
			// reported but does not undo the persistence step.
			gs.logger.Error().Err(err).Msg("Failed to push state commit")
			return commitHash.String(), err
		}
	}
	return commitHash.String(), nil
}

func (gs *GitStore) push(ctx context.Context, repo *git.Repository) error {
	if _, err := repo.Remote(gs.cfg.RemoteName); err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			gs.logger.Warn().Str("remote", gs.cfg.RemoteName).Msg("Remote not configured, skipping push")
			return nil
		}
		return fmt.Errorf("looking up remote '%s': %w", gs.cfg.RemoteName, err)
	}

	pushOptions := &git.PushOptions{RemoteName: gs.cfg.RemoteName}
	if token := os.Getenv(gs.cfg.TokenEnv); gs.cfg.TokenEnv != "" && token != "" {
		pushOptions.Auth = &githttp.BasicAuth{
			Username: gs.cfg.AuthorName,
			Password: token,
		}
	}

	if err := repo.PushContext(ctx, pushOptions); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			gs.logger.Debug().Msg("Remote already up to date")
			return nil
		}
		return fmt.Errorf("pushing to '%s': %w", gs.cfg.RemoteName, err)
	}

	gs.logger.Info().Str("remote", gs.cfg.RemoteName).Msg("State commit pushed")
	return nil
}

// repoRelativePath converts the state file path into a path relative to the
// repository root, as required by Worktree.Add.
func (gs *GitStore) repoRelativePath(stateFilePath string) (string, error) {
	absRepo, err := filepath.Abs(gs.cfg.RepoPath)
	if err != nil {
		return "", fmt.Errorf("resolving repository path: %w", err)
	}
	absFile, err := filepath.Abs(stateFilePath)
	if err != nil {
		return "", fmt.Errorf("resolving state file path: %w", err)
	}
	relPath, err := filepath.Rel(absRepo, absFile)
	if err != nil {
		return "", fmt.Errorf("computing path of state file relative to repository: %w", err)
	}
	return filepath.ToSlash(relPath), nil
}
