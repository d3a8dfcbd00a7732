package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	noColor    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "diarium",
	Short: "Local journal with theme-derived memory links",
	Long: `diarium keeps a folder of dated markdown entries and maintains
"Memory Links" between entries that share recurring themes. Entry templates,
todo extraction, and trace narratives use a local Ollama model; theme
detection and linking are purely local text analysis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the diarium version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("diarium version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/diarium/config.toml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(todosCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
