// Package cmd provides the command-line interface for docsmith with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. DOCSMITH_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (DOCSMITH_SERVER_PORT, etc.)
//	4. Configuration files (.docsmith.yml) - lowest priority
//
// Environment Variables:
//
//	DOCSMITH_CONFIG_FILE: Path to custom configuration file
//	DOCSMITH_SERVER_PORT: Override development server port
//	DOCSMITH_BUILD_OUTPUT_DIR: Override build output directory
//	And more following the DOCSMITH_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docsmith/docsmith/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docsmith",
	Short: "A static documentation site generator with live reload",
	Long: `Docsmith builds a documentation website from Markdown pages and a site
configuration file: themed pages with sidebar navigation, a homepage with
a hero banner and feature grid, and a development server with hot reload.

Quick Start:
  docsmith init                   Scaffold a new documentation site
  docsmith serve                  Start the development server
  docsmith build                  Build the static site
  docsmith list                   List discovered pages
  docsmith check                  Validate config and content without building`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .docsmith.yml, can also use DOCSMITH_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// newLogger builds the root logger from the --log-level flag.
func newLogger() logging.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(viper.GetString("log-level"))
	return logging.NewLogger(cfg)
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. DOCSMITH_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .docsmith.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("DOCSMITH_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".docsmith")
	}

	// Enable automatic environment variable binding with DOCSMITH_ prefix
	// Examples: DOCSMITH_SERVER_PORT, DOCSMITH_BUILD_OUTPUT_DIR
	viper.SetEnvPrefix("DOCSMITH")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults and flags still apply.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
