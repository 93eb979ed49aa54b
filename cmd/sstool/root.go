package main

import (
	"fmt"
	"os"

	"github.com/JackWithOneEye/sensiedit/internal/config"
	"github.com/JackWithOneEye/sensiedit/internal/rom"
	"github.com/spf13/cobra"
)

var (
	configFile string
	window     = rom.DefaultWindow
)

var rootCmd = &cobra.Command{
	Use:   "sstool",
	Short: "Decode, validate and rewrite Sensible Soccer team data",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		window = cfg.ScanWindow()
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", ".env", "env file with SCAN_START/SCAN_END overrides")
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(infoCmd)
}
