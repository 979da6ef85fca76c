package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tutorchat/internal/config"
	"tutorchat/internal/logger"
)

var (
	verbose       bool
	format        string
	downloadsRoot string
	version       = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "lessonctl",
	Short: "Inspect lesson extraction, source resolution and chat routing offline",
	Long: `lessonctl runs the tutorchat lesson pipeline without the API or worker.

Quick Start:
  lessonctl extract downloads/lesson_3.pdf --id 3
  lessonctl resolve 23 --downloads ./downloads
  lessonctl classify "Can you summarize this lesson?" --lesson downloads/lesson_3.pdf`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch format {
		case "text", "json", "yaml":
			return nil
		default:
			return fmt.Errorf("unsupported format %q (text, json, yaml)", format)
		}
	},
}

func Execute() {
	_ = godotenv.Load(".env")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cliLogger() *logger.Logger {
	if !verbose {
		return logger.Nop()
	}
	log, err := logger.New("dev")
	if err != nil {
		return logger.Nop()
	}
	return log
}

func init() {
	cfg := config.Load()
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&downloadsRoot, "downloads", cfg.DownloadsRoot, "Lesson PDF downloads root")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
