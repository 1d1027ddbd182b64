package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docsmith/docsmith/internal/build"
	"github.com/docsmith/docsmith/internal/config"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static site",
	Long: `Build the documentation site: scan Markdown pages, validate asset
references, render every page through the theme, and write the output
directory together with static assets, sitemap.xml, and robots.txt.

Examples:
  docsmith build                  # Build into the configured output dir
  docsmith build --output dist    # Build into a specific directory
  docsmith build --minify         # Minify generated HTML
  docsmith build --clean          # Remove the output dir before building`,
	RunE: runBuild,
}

var buildClean bool

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("output", "o", "", "Output directory")
	buildCmd.Flags().Bool("minify", false, "Minify generated HTML")
	buildCmd.Flags().Bool("drafts", false, "Include draft pages")
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "Remove the output directory before building")

	viper.BindPFlag("build.output_dir", buildCmd.Flags().Lookup("output"))
	viper.BindPFlag("build.minify_html", buildCmd.Flags().Lookup("minify"))
	viper.BindPFlag("content.include_drafts", buildCmd.Flags().Lookup("drafts"))
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger()

	if buildClean {
		if err := os.RemoveAll(cfg.Build.OutputDir); err != nil {
			return fmt.Errorf("cleaning output directory: %w", err)
		}
	}

	builder, err := build.New(cfg, logger)
	if err != nil {
		return err
	}

	result, err := builder.Build(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Built %d pages (%d files) in %s → %s\n",
		result.Pages, len(result.GeneratedFiles), result.Duration.Round(time.Millisecond), cfg.Build.OutputDir)
	return nil
}
