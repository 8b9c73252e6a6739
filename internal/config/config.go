package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// ChunkSize is how many whole groups each validation batch carries.
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size"`
	// OutputSuffix is appended to the input base name when no explicit
	// output path is given (input.xlsx -> input_checked.xlsx).
	OutputSuffix string `mapstructure:"output_suffix" yaml:"output_suffix"`

	// Serve mode
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat   string `mapstructure:"log_format" yaml:"log_format"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.fmdqa/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".fmdqa")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("FMDQA")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("chunk_size", 20)
	v.SetDefault("output_suffix", "_checked")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("max_upload_mb", 64)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".fmdqa")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
