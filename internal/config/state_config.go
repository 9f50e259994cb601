package config

// StateConfig defines where the persisted state record lives.
type StateConfig struct {
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty" validate:"required"`
}

// NewDefaultStateConfig creates default state configuration
func NewDefaultStateConfig() StateConfig {
	return StateConfig{
		FilePath: DefaultStateFilePath,
	}
}
