package config

// StorageConfig defines configuration for the Parquet check-history store.
type StorageConfig struct {
	HistoryBasePath  string `json:"history_base_path,omitempty" yaml:"history_base_path,omitempty"`
	CompressionCodec string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		HistoryBasePath:  DefaultHistoryBasePath,
		CompressionCodec: "zstd",
	}
}
