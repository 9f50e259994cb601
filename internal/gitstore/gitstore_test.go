package gitstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/satwatch/internal/config"
)

func setupTestRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	repoPath := t.TempDir()
	repo, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)
	return repoPath, repo
}

func newTestGitStore(repoPath string) *GitStore {
	cfg := config.NewDefaultGitConfig()
	cfg.Enabled = true
	cfg.RepoPath = repoPath
	cfg.PushEnabled = false
	return NewGitStore(&cfg, zerolog.Nop())
}

func TestCommitStateFile_CommitsChange(t *testing.T) {
	repoPath, repo := setupTestRepo(t)
	statePath := filepath.Join(repoPath, "sat_monitor_state.json")
	require.NoError(t, os.WriteFile(statePath, []byte(`{"test_date_count": 1}`), 0644))

	gs := newTestGitStore(repoPath)
	hash, err := gs.CommitStateFile(context.Background(), statePath)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultGitCommitMessage, commit.Message)
	assert.Equal(t, config.DefaultGitAuthorName, commit.Author.Name)
}

func TestCommitStateFile_NoChangeNoCommit(t *testing.T) {
	repoPath, repo := setupTestRepo(t)
	statePath := filepath.Join(repoPath, "sat_monitor_state.json")
	require.NoError(t, os.WriteFile(statePath, []byte(`{}`), 0644))

	// Commit the file once so the worktree is clean afterwards.
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add("sat_monitor_state.json")
	require.NoError(t, err)
	_, err = worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	require.NoError(t, err)

	gs := newTestGitStore(repoPath)
	hash, err := gs.CommitStateFile(context.Background(), statePath)
	require.NoError(t, err)
	assert.Empty(t, hash, "unchanged file must not produce a commit")
}

func TestCommitStateFile_Disabled(t *testing.T) {
	repoPath, _ := setupTestRepo(t)
	statePath := filepath.Join(repoPath, "sat_monitor_state.json")
	require.NoError(t, os.WriteFile(statePath, []byte(`{}`), 0644))

	gs := newTestGitStore(repoPath)
	gs.cfg.Enabled = false

	hash, err := gs.CommitStateFile(context.Background(), statePath)
	require.NoError(t, err)
	assert.Empty(t, hash)
}

func TestCommitStateFile_PushWithoutRemoteIsTolerated(t *testing.T) {
	repoPath, _ := setupTestRepo(t)
	statePath := filepath.Join(repoPath, "sat_monitor_state.json")
	require.NoError(t, os.WriteFile(statePath, []byte(`{"test_date_count": 2}`), 0644))

	gs := newTestGitStore(repoPath)
	gs.cfg.PushEnabled = true

	hash, err := gs.CommitStateFile(context.Background(), statePath)
	require.NoError(t, err, "missing remote must not fail the commit step")
	assert.NotEmpty(t, hash)
}

func TestRepoRelativePath(t *testing.T) {
	repoPath, _ := setupTestRepo(t)
	gs := newTestGitStore(repoPath)

	rel, err := gs.repoRelativePath(filepath.Join(repoPath, "nested", "state.json"))
	require.NoError(t, err)
	assert.Equal(t, "nested/state.json", rel)
}
