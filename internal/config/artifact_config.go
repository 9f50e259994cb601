package config

// ArtifactConfig defines how run logs are captured as retrievable artifacts.
type ArtifactConfig struct {
	OutputDir     string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" validate:"required"`
	NamePrefix    string `json:"name_prefix,omitempty" yaml:"name_prefix,omitempty"`
	RetentionDays int    `json:"retention_days,omitempty" yaml:"retention_days,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultArtifactConfig creates default artifact configuration
func NewDefaultArtifactConfig() ArtifactConfig {
	return ArtifactConfig{
		OutputDir:     DefaultArtifactDir,
		NamePrefix:    DefaultArtifactNamePrefix,
		RetentionDays: DefaultArtifactRetentionDays,
	}
}
