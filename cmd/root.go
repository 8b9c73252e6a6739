package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/chemsmart/fmdqa/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags (wired to config)
	cfgFile       string
	debug         bool
	flagChunkSize int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "fmdqa",
	Short: "fmdqa: QA checker for FMD compliance spreadsheets",
	Long: `fmdqa validates Full Material Declaration spreadsheets: it groups rows
into component records (ChemicalID + PartNumber), runs a fixed battery of
arithmetic and consistency checks over each group, and writes the sheet
back out with an "Automated QA Comment" column describing every finding.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.fmdqa/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagChunkSize, "chunk-size", 0, "groups per validation batch (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: defaults still allow a run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{ChunkSize: 20, OutputSuffix: "_checked", ListenAddr: ":8080", MaxUploadMB: 64, LogLevel: "info", LogFormat: "console"}
	}
	cfg = c

	if rootCmd.PersistentFlags().Changed("chunk-size") && flagChunkSize > 0 {
		cfg.ChunkSize = flagChunkSize
	}
}
