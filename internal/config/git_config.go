package config

// GitConfig defines how state file changes are persisted to version control.
type GitConfig struct {
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	RepoPath      string `json:"repo_path,omitempty" yaml:"repo_path,omitempty"`
	RemoteName    string `json:"remote_name,omitempty" yaml:"remote_name,omitempty"`
	CommitMessage string `json:"commit_message,omitempty" yaml:"commit_message,omitempty"`
	AuthorName    string `json:"author_name,omitempty" yaml:"author_name,omitempty"`
	AuthorEmail   string `json:"author_email,omitempty" yaml:"author_email,omitempty"`
	// TokenEnv names the environment variable holding the push token.
	TokenEnv string `json:"token_env,omitempty" yaml:"token_env,omitempty"`
	// PushEnabled can be turned off for local runs; commits still happen.
	PushEnabled bool `json:"push_enabled" yaml:"push_enabled"`
}

// NewDefaultGitConfig creates default git configuration
func NewDefaultGitConfig() GitConfig {
	return GitConfig{
		Enabled:       true,
		RepoPath:      ".",
		RemoteName:    DefaultGitRemoteName,
		CommitMessage: DefaultGitCommitMessage,
		AuthorName:    DefaultGitAuthorName,
		AuthorEmail:   DefaultGitAuthorEmail,
		TokenEnv:      "GITHUB_TOKEN",
		PushEnabled:   true,
	}
}
