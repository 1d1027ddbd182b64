package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/registry"
	"github.com/docsmith/docsmith/internal/scanner"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered documentation pages",
	Long: `Scan the content directory and list every discovered page in sidebar
order, with its slug, section, and source file.

Examples:
  docsmith list                   # Table output
  docsmith list --format json     # JSON output for tooling`,
	RunE: runList,
}

var listFormat string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format (table, json)")
	listCmd.Flags().Bool("drafts", false, "Include draft pages")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	drafts, _ := cmd.Flags().GetBool("drafts")

	reg := registry.NewPageRegistry()
	pageScanner := scanner.NewPageScanner(reg,
		scanner.WithExcludePatterns(cfg.Content.ExcludePatterns),
		scanner.WithDrafts(drafts || cfg.Content.IncludeDrafts),
	)

	if err := pageScanner.ScanDirectory(cfg.Content.Dir); err != nil {
		return err
	}

	pages := reg.GetAll()

	switch listFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pages)
	case "table":
		if len(pages) == 0 {
			fmt.Println("No pages found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tTITLE\tSECTION\tFILE")
		for _, page := range pages {
			section := page.Section
			if section == "" {
				section = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", page.Slug, page.Title, section, page.FilePath)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q (expected table or json)", listFormat)
	}
}
