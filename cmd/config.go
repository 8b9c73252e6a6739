package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/chemsmart/fmdqa/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set fmdqa configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("chunk_size: %d\n", cfg.ChunkSize)
		fmt.Printf("output_suffix: %s\n", cfg.OutputSuffix)
		fmt.Printf("listen_addr: %s\n", cfg.ListenAddr)
		fmt.Printf("max_upload_mb: %d\n", cfg.MaxUploadMB)
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		fmt.Printf("log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "chunk_size":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for chunk_size: %v", val)
			}
			cfg.ChunkSize = i
		case "output_suffix":
			cfg.OutputSuffix = val
		case "listen_addr":
			cfg.ListenAddr = val
		case "max_upload_mb":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for max_upload_mb: %v", val)
			}
			cfg.MaxUploadMB = i
		case "log_level":
			cfg.LogLevel = val
		case "log_format":
			switch val {
			case "console", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use console or json)", val)
			}
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
