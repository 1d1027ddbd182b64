package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/errors"
	"github.com/docsmith/docsmith/internal/registry"
	"github.com/docsmith/docsmith/internal/scanner"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and content without building",
	Long: `Validate the site without writing any output: configuration values,
frontmatter of every page, and feature icon references.
Exits non-zero when problems are found, which makes it suitable for CI.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	collector := errors.NewErrorCollector()

	// Feature icons must resolve inside the static directory.
	for _, feature := range cfg.Homepage.Features {
		asset := filepath.Join(cfg.Content.StaticDir, filepath.FromSlash(feature.Icon))
		if _, err := os.Stat(asset); err != nil {
			collector.Add(errors.MissingAssetError(".docsmith.yml", feature.Icon))
		}
	}

	// Every page must scan cleanly; drafts included so their frontmatter
	// is checked too.
	reg := registry.NewPageRegistry()
	pageScanner := scanner.NewPageScanner(reg,
		scanner.WithExcludePatterns(cfg.Content.ExcludePatterns),
		scanner.WithDrafts(true),
	)
	if err := pageScanner.ScanDirectory(cfg.Content.Dir); err != nil {
		collector.AddError(err)
	}

	if collector.HasErrors() {
		fmt.Fprintln(os.Stderr, collector.Summary())
		return fmt.Errorf("check failed with %d problems", collector.Count())
	}

	fmt.Printf("OK: %d pages, %d features, no problems found\n", reg.Count(), len(cfg.Homepage.Features))
	return nil
}
